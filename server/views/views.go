// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders the pages of the sample server as templ components.
*/
package views

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"codeberg.org/uitext/uitext/i18n"
	"codeberg.org/uitext/uitext/render/html"
	"codeberg.org/uitext/uitext/richtext"
)

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	Tag     language.Tag
	Current bool
}

// Name returns the language name in the language itself, for example
// "français".
func (l LanguageLink) Name() string {
	if name := display.Self.Name(l.Tag); name != "" {
		return name
	}

	return l.Tag.String()
}

// Href switches to the language and returns to path.
func (l LanguageLink) Href(path string) string {
	return path + "?" + url.Values{i18n.LangParam: {l.Tag.String()}}.Encode()
}

// Section is one resolved document.
type Section struct {
	Name string
	Body richtext.Text
}

// PageData holds the content of [Page].
type PageData struct {
	Title     richtext.Text
	Lang      language.Tag
	Path      string
	Languages []LanguageLink
	Sections  []Section
	Footer    string
}

// ErrorData holds the content of [Error].
type ErrorData struct {
	Title      string
	StatusCode int
	Error      error
}

// writer stops writing after the first error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err == nil {
		w.err = c.Render(ctx, w.w)
	}
}

func (w *writer) open(lang language.Tag, title string) {
	w.raw(`<!DOCTYPE html><html lang="`)
	w.text(lang.String())
	w.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
	w.text(title)
	w.raw(`</title><link rel="stylesheet" href="/css/style.css"></head><body>`)
}

func (w *writer) close() {
	w.raw(`</body></html>`)
}

// Page renders the example documents with a language switcher.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}

		// Titles cannot hold markup.
		w.open(data.Lang, textOf(data.Title))

		w.raw(`<header><h1>`)
		w.component(ctx, html.Component(data.Title))
		w.raw(`</h1><nav class="languages">`)

		for _, l := range data.Languages {
			w.raw(`<a href="`)
			w.text(l.Href(data.Path))
			w.raw(`" hreflang="`)
			w.text(l.Tag.String())
			w.raw(`" aria-current="`)
			w.raw(strconv.FormatBool(l.Current))
			w.raw(`">`)
			w.text(l.Name())
			w.raw(`</a>`)
		}

		w.raw(`</nav></header><main>`)

		for _, s := range data.Sections {
			w.raw(`<section class="example" id="`)
			w.text(s.Name)
			w.raw(`"><h2><a href="/documents/`)
			w.text(url.PathEscape(s.Name))
			w.raw(`">`)
			w.text(s.Name)
			w.raw(`</a></h2><div class="body">`)
			w.component(ctx, html.Component(s.Body))
			w.raw(`</div></section>`)
		}

		w.raw(`</main><footer>`)
		w.text(data.Footer)
		w.raw(`</footer>`)
		w.close()

		return w.err
	})
}

// Error renders an error page.
func Error(data ErrorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}

		w.open(language.Und, data.Title)
		w.raw(`<main><h1>`)
		w.text(fmt.Sprintf("%d %s", data.StatusCode, http.StatusText(data.StatusCode)))
		w.raw(`</h1>`)

		if data.Error != nil {
			w.raw(`<p class="error">`)
			w.text(data.Error.Error())
			w.raw(`</p>`)
		}

		w.raw(`<p><a href="/">&larr; Home</a></p></main>`)
		w.close()

		return w.err
	})
}

func textOf(t richtext.Text) string {
	if t == nil {
		return ""
	}

	return t.String()
}
