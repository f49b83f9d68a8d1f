// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package annotation defines the style and link annotations that can be attached
to ranges of resolved text.

The set of variants is closed: [Span], [Paragraph] and [Link]. The resolution
engine never interprets their payloads; it only orders and nests them. Renderers
such as render/html and render/ansi give them meaning.

Annotations are applied in list order, each one nested inside the previous one,
so the first annotation of a list is the outermost range.
*/
package annotation

// Kind identifies the variant of an [Annotation].
type Kind int

const (
	KindSpan Kind = iota + 1
	KindParagraph
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindSpan:
		return "span"
	case KindParagraph:
		return "paragraph"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Annotation is one of [Span], [Paragraph] or [Link].
type Annotation interface {
	Kind() Kind

	isAnnotation()
}

// Span is a character-range style.
type Span struct {
	Style SpanStyle
}

// Paragraph is a block-range style. It wraps the whole produced text of the
// node that owns it.
type Paragraph struct {
	Style ParagraphStyle
}

// Link is an inline range carrying a navigation target.
//
// URL is used for navigation links. Tag identifies clickable ranges that do not
// navigate anywhere; the embedding application decides what a click does.
type Link struct {
	URL   string
	Tag   string
	Style SpanStyle
}

func (Span) Kind() Kind      { return KindSpan }
func (Paragraph) Kind() Kind { return KindParagraph }
func (Link) Kind() Kind      { return KindLink }

func (Span) isAnnotation()      {}
func (Paragraph) isAnnotation() {}
func (Link) isAnnotation()      {}

// SpanStyle describes inline presentation. Colors are CSS-like strings, for
// example "#cc0000" or "red"; an empty string means unset.
type SpanStyle struct {
	Bold          bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty" yaml:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty" yaml:"strikethrough,omitempty"`
	Color         string `json:"color,omitempty" yaml:"color,omitempty"`
	Background    string `json:"background,omitempty" yaml:"background,omitempty"`
}

// IsZero reports whether s sets no property.
func (s SpanStyle) IsZero() bool {
	return s == SpanStyle{}
}

// Merge returns s with every property set in other applied on top.
func (s SpanStyle) Merge(other SpanStyle) SpanStyle {
	s.Bold = s.Bold || other.Bold
	s.Italic = s.Italic || other.Italic
	s.Underline = s.Underline || other.Underline
	s.Strikethrough = s.Strikethrough || other.Strikethrough

	if other.Color != "" {
		s.Color = other.Color
	}

	if other.Background != "" {
		s.Background = other.Background
	}

	return s
}

// Align is the horizontal alignment of a paragraph.
type Align string

const (
	AlignUnset   Align = ""
	AlignStart   Align = "start"
	AlignCenter  Align = "center"
	AlignEnd     Align = "end"
	AlignJustify Align = "justify"
)

// Valid reports whether a is one of the known alignments.
func (a Align) Valid() bool {
	switch a {
	case AlignUnset, AlignStart, AlignCenter, AlignEnd, AlignJustify:
		return true
	default:
		return false
	}
}

// ParagraphStyle describes block presentation.
type ParagraphStyle struct {
	Align  Align `json:"align,omitempty" yaml:"align,omitempty"`
	Indent int   `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// Bold is shorthand for a bold [Span].
func Bold() Span {
	return Span{Style: SpanStyle{Bold: true}}
}

// Italic is shorthand for an italic [Span].
func Italic() Span {
	return Span{Style: SpanStyle{Italic: true}}
}

// Color is shorthand for a [Span] setting the foreground color.
func Color(c string) Span {
	return Span{Style: SpanStyle{Color: c}}
}

// URL is shorthand for a navigation [Link].
func URL(u string) Link {
	return Link{URL: u}
}

// Clone returns a copy of list that does not share its backing array.
// It returns nil for an empty list.
func Clone(list []Annotation) []Annotation {
	if len(list) == 0 {
		return nil
	}

	out := make([]Annotation, len(list))
	copy(out, list)

	return out
}
