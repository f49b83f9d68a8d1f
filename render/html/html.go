// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package html renders resolved text as HTML through templ components.

Span annotations become <span> elements, paragraphs become <div> elements and
links become <a> elements, nested following the range structure. Text is
escaped, link URLs are sanitized by templ and style values that are not plain
CSS colors are dropped.
*/
package html

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
)

// colorRe accepts hex colors, color names and functional notations such as
// rgb(0, 0, 0). Anything else could break out of the style attribute.
var colorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|(rgb|rgba|hsl|hsla)\([0-9., %]+\))$`)

// Component returns a templ component rendering t.
func Component(t richtext.Text) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(ctx, w, t)
	})
}

// Render writes t as HTML to w. Zero-length ranges produce no element.
func Render(ctx context.Context, w io.Writer, t richtext.Text) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p, ok := t.(richtext.Plain); ok {
		_, err := io.WriteString(w, templ.EscapeString(string(p)))
		return err
	}

	v := &visitor{w: w}
	richtext.Walk(t, v, true)

	return v.err
}

// RenderToString converts t to its HTML representation.
//
// Handling errors in templates is awkward, so if an error occurs during rendering,
// it is formatted into a string and returned.
func RenderToString(t richtext.Text) string {
	var buffer bytes.Buffer

	if err := Render(context.Background(), &buffer, t); err != nil {
		return fmt.Errorf("html: failed to render text: %w", err).Error()
	}

	return buffer.String()
}

type visitor struct {
	w   io.Writer
	err error
}

func (v *visitor) write(s string) {
	if v.err == nil {
		_, v.err = io.WriteString(v.w, s)
	}
}

func (v *visitor) Enter(r richtext.Range) {
	switch a := r.Annotation.(type) {
	case annotation.Span:
		v.write("<span" + styleAttr(spanStyle(a.Style)) + ">")
	case annotation.Paragraph:
		v.write("<div" + styleAttr(paragraphStyle(a.Style)) + ">")
	case annotation.Link:
		attrs := ""
		if a.URL != "" {
			attrs += ` href="` + templ.EscapeString(string(templ.URL(a.URL))) + `"`
		}

		if a.Tag != "" {
			attrs += ` data-tag="` + templ.EscapeString(a.Tag) + `"`
		}

		v.write("<a" + attrs + styleAttr(spanStyle(a.Style)) + ">")
	}
}

func (v *visitor) Text(s string) {
	v.write(templ.EscapeString(s))
}

func (v *visitor) Exit(r richtext.Range) {
	switch r.Annotation.(type) {
	case annotation.Span:
		v.write("</span>")
	case annotation.Paragraph:
		v.write("</div>")
	case annotation.Link:
		v.write("</a>")
	}
}

func styleAttr(decls []string) string {
	if len(decls) == 0 {
		return ""
	}

	return ` style="` + templ.EscapeString(strings.Join(decls, ";")) + `"`
}

func spanStyle(s annotation.SpanStyle) []string {
	var decls []string

	if s.Bold {
		decls = append(decls, "font-weight:bold")
	}

	if s.Italic {
		decls = append(decls, "font-style:italic")
	}

	var deco []string

	if s.Underline {
		deco = append(deco, "underline")
	}

	if s.Strikethrough {
		deco = append(deco, "line-through")
	}

	if len(deco) > 0 {
		decls = append(decls, "text-decoration:"+strings.Join(deco, " "))
	}

	if colorRe.MatchString(s.Color) {
		decls = append(decls, "color:"+s.Color)
	}

	if colorRe.MatchString(s.Background) {
		decls = append(decls, "background-color:"+s.Background)
	}

	return decls
}

func paragraphStyle(s annotation.ParagraphStyle) []string {
	var decls []string

	if s.Align != annotation.AlignUnset && s.Align.Valid() {
		decls = append(decls, "text-align:"+string(s.Align))
	}

	if s.Indent > 0 {
		decls = append(decls, "padding-left:"+strconv.Itoa(s.Indent)+"em")
	}

	return decls
}
