// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import (
	"strings"

	"codeberg.org/uitext/uitext/annotation"
)

// Builder assembles an [Annotated] text.
//
// Ranges are opened with [Builder.Push] and closed with [Builder.Pop]. A range
// starts at the length of the text when it is pushed and ends at the length of
// the text when it is popped. The zero value is ready to use.
type Builder struct {
	sb     strings.Builder
	ranges []Range
	open   []int // indices into ranges of the ranges not yet closed
}

// Len returns the current length of the text in bytes.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// Depth returns the number of open ranges.
func (b *Builder) Depth() int {
	return len(b.open)
}

// Append appends literal text.
func (b *Builder) Append(s string) {
	b.sb.WriteString(s)
}

// AppendText appends t. The ranges of an [Annotated] value are shifted to the
// current offset and placed after every range opened so far.
func (b *Builder) AppendText(t Text) {
	a, ok := t.(Annotated)
	if !ok {
		if t != nil {
			b.sb.WriteString(t.String())
		}

		return
	}

	offset := b.sb.Len()
	b.sb.WriteString(a.text)

	for _, r := range a.ranges {
		b.ranges = append(b.ranges, Range{
			Start:      r.Start + offset,
			End:        r.End + offset,
			Annotation: r.Annotation,
		})
	}
}

// Push opens a range for a and returns the stack depth before the push, which
// can be handed to [Builder.PopTo].
func (b *Builder) Push(a annotation.Annotation) int {
	depth := len(b.open)

	b.ranges = append(b.ranges, Range{Start: b.sb.Len(), End: -1, Annotation: a})
	b.open = append(b.open, len(b.ranges)-1)

	return depth
}

// Pop closes the most recently opened range. It panics if no range is open.
func (b *Builder) Pop() {
	if len(b.open) == 0 {
		panic("richtext: Pop without matching Push")
	}

	last := len(b.open) - 1
	b.ranges[b.open[last]].End = b.sb.Len()
	b.open = b.open[:last]
}

// PopTo closes ranges until depth ranges remain open.
func (b *Builder) PopTo(depth int) {
	for len(b.open) > depth {
		b.Pop()
	}
}

// With opens annotations in order, the first one outermost, calls fn, and
// closes them again.
func (b *Builder) With(annotations []annotation.Annotation, fn func()) {
	depth := len(b.open)

	for _, a := range annotations {
		b.Push(a)
	}

	fn()

	b.PopTo(depth)
}

// Build returns the text built so far. Ranges still open end at the current length.
func (b *Builder) Build() Annotated {
	ranges := make([]Range, len(b.ranges))
	copy(ranges, b.ranges)

	for _, i := range b.open {
		ranges[i].End = b.sb.Len()
	}

	if len(ranges) == 0 {
		ranges = nil
	}

	return Annotated{text: b.sb.String(), ranges: ranges}
}
