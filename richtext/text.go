// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package richtext holds resolved output: text that is either [Plain] or
[Annotated] with style and link ranges.

Annotated values are built with a [Builder], which opens and closes ranges on an
explicit stack so that every range is either nested inside or disjoint from the
others. [Format] substitutes arguments into a parsed format string while nesting
annotations, and [Concat] joins fragments while keeping their ranges.

Offsets are byte offsets into the UTF-8 backing string. Ranges are half-open.
*/
package richtext

import (
	"slices"

	"codeberg.org/uitext/uitext/annotation"
)

// Text is either [Plain] or [Annotated].
type Text interface {
	// String returns the characters of the text. For [Annotated] values this
	// drops every annotation, which cannot be undone.
	String() string

	// Len returns the length of the text in bytes.
	Len() int

	isText()
}

// Plain is text without annotations.
type Plain string

func (p Plain) String() string { return string(p) }
func (p Plain) Len() int       { return len(p) }
func (Plain) isText()          {}

// Range attaches an annotation to the bytes [Start, End) of an [Annotated] text.
type Range struct {
	Start      int
	End        int
	Annotation annotation.Annotation
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether other lies within r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Annotated is text with an ordered list of annotation ranges.
//
// Ranges are kept in the order they were opened, so an enclosing range always
// precedes the ranges nested inside it. The zero value is an empty annotated
// text. Annotated values are immutable.
type Annotated struct {
	text   string
	ranges []Range
}

func (a Annotated) String() string { return a.text }
func (a Annotated) Len() int       { return len(a.text) }
func (Annotated) isText()          {}

// Ranges returns a copy of the annotation ranges.
func (a Annotated) Ranges() []Range {
	return slices.Clone(a.ranges)
}

// NumRanges returns the number of annotation ranges.
func (a Annotated) NumRanges() int {
	return len(a.ranges)
}

// Slice returns the characters covered by r.
func (a Annotated) Slice(r Range) string {
	return a.text[r.Start:r.End]
}

// Plain drops every annotation.
func (a Annotated) Plain() Plain {
	return Plain(a.text)
}

// AsAnnotated returns t as an [Annotated] value. Plain text becomes annotated
// text without ranges.
func AsAnnotated(t Text) Annotated {
	switch t := t.(type) {
	case Annotated:
		return t
	case nil:
		return Annotated{}
	default:
		return Annotated{text: t.String()}
	}
}

// IsAnnotated reports whether t is an [Annotated] value, even one without ranges.
func IsAnnotated(t Text) bool {
	_, ok := t.(Annotated)
	return ok
}

// Styled returns s covered by the given annotations, the first one outermost.
func Styled(s string, annotations ...annotation.Annotation) Annotated {
	var b Builder

	b.With(annotations, func() {
		b.Append(s)
	})

	return b.Build()
}
