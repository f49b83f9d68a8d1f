// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package ansi renders resolved text for terminals with lipgloss styles.
// Links become OSC 8 hyperlinks and paragraph indents become left padding.
package ansi

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
)

// indentWidth is the number of columns per paragraph indent level.
const indentWidth = 2

// Option configures a [Renderer].
type Option func(*Renderer)

// WithColorProfile overrides the color profile detected from the output.
func WithColorProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.lg.SetColorProfile(p)
		r.hyperlinks = p != termenv.Ascii
	}
}

// WithHyperlinks turns OSC 8 hyperlinks on or off.
func WithHyperlinks(on bool) Option {
	return func(r *Renderer) { r.hyperlinks = on }
}

// WithWidth sets the paragraph width used for alignment. Without a width,
// alignment is ignored.
func WithWidth(w int) Option {
	return func(r *Renderer) { r.width = w }
}

// Renderer renders text for one output.
type Renderer struct {
	lg         *lipgloss.Renderer
	out        io.Writer
	hyperlinks bool
	width      int
}

// New returns a renderer for w, detecting its color capabilities.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{lg: lipgloss.NewRenderer(w), out: w}
	r.hyperlinks = r.lg.ColorProfile() != termenv.Ascii

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render returns t with terminal escape sequences.
func (r *Renderer) Render(t richtext.Text) string {
	if p, ok := t.(richtext.Plain); ok {
		return string(p)
	}

	v := &visitor{r: r, frames: []frame{{buf: new(strings.Builder)}}}
	richtext.Walk(t, v, true)

	return v.frames[0].buf.String()
}

// Print writes t followed by a newline to the renderer's output.
func (r *Renderer) Print(t richtext.Text) error {
	_, err := io.WriteString(r.out, r.Render(t)+"\n")
	return err
}

func (r *Renderer) spanStyle(s annotation.SpanStyle) lipgloss.Style {
	st := r.lg.NewStyle().
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Strikethrough(s.Strikethrough)

	if s.Color != "" {
		st = st.Foreground(lipgloss.Color(s.Color))
	}

	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}

	return st
}

func (r *Renderer) paragraphStyle(s annotation.ParagraphStyle) lipgloss.Style {
	st := r.lg.NewStyle().PaddingLeft(s.Indent * indentWidth)

	if r.width > 0 {
		st = st.Width(r.width).Align(position(s.Align))
	}

	return st
}

func position(a annotation.Align) lipgloss.Position {
	switch a {
	case annotation.AlignCenter:
		return lipgloss.Center
	case annotation.AlignEnd:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

// frame is one open range. Links and paragraphs buffer their content so it
// can be wrapped as a whole when the range closes.
type frame struct {
	style    annotation.SpanStyle
	buffered bool
	buf      *strings.Builder
}

type visitor struct {
	r      *Renderer
	frames []frame
}

func (v *visitor) top() *frame {
	return &v.frames[len(v.frames)-1]
}

// target is the innermost buffer.
func (v *visitor) target() *strings.Builder {
	for i := len(v.frames) - 1; i > 0; i-- {
		if v.frames[i].buffered {
			return v.frames[i].buf
		}
	}

	return v.frames[0].buf
}

func (v *visitor) Enter(r richtext.Range) {
	f := frame{style: v.top().style, buf: new(strings.Builder)}

	switch a := r.Annotation.(type) {
	case annotation.Span:
		f.style = f.style.Merge(a.Style)
	case annotation.Link:
		f.style = f.style.Merge(a.Style)
		f.buffered = a.URL != ""
	case annotation.Paragraph:
		f.buffered = true
	}

	v.frames = append(v.frames, f)
}

func (v *visitor) Text(s string) {
	style := v.top().style
	if !style.IsZero() {
		s = v.r.spanStyle(style).Render(s)
	}

	v.target().WriteString(s)
}

func (v *visitor) Exit(r richtext.Range) {
	f := v.top()
	content := f.buf.String()
	buffered := f.buffered

	v.frames = v.frames[:len(v.frames)-1]

	if !buffered {
		return
	}

	switch a := r.Annotation.(type) {
	case annotation.Link:
		if v.r.hyperlinks {
			content = termenv.Hyperlink(a.URL, content)
		}
	case annotation.Paragraph:
		content = v.r.paragraphStyle(a.Style).Render(content)
	}

	v.target().WriteString(content)
}
