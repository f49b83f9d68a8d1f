// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the handlers of the sample server. Handlers return an
error and are wrapped by middleware.CatchError.
*/
package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/i18n"
	"codeberg.org/uitext/uitext/render/html"
	"codeberg.org/uitext/uitext/richtext"
	"codeberg.org/uitext/uitext/server/request_context"
	"codeberg.org/uitext/uitext/server/views"
	"codeberg.org/uitext/uitext/uitext"
)

const (
	langCookieMaxAge = 365 * 24 * time.Hour

	formatJSON = "json"
)

type documentJSON struct {
	Document  string             `json:"document"`
	Locale    string             `json:"locale"`
	Annotated richtext.Annotated `json:"annotated"`
}

// titleNode is resolved for the page title.
var titleNode = uitext.New(func(b *uitext.Builder) {
	b.Format("header.title")
})

// Routes serves the documents of an [app.App].
type Routes struct {
	App *app.App
}

// IndexPage renders every document for the request locale.
func (rt Routes) IndexPage(w http.ResponseWriter, r *http.Request) error {
	return rt.page(w, r, rt.App.Documents.Names())
}

// DocumentPage renders the document named by the {name} path value.
func (rt Routes) DocumentPage(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("name")

	if _, ok := rt.App.Documents.Get(name); !ok {
		w.WriteHeader(http.StatusNotFound)

		return fmt.Errorf("%w: %q", app.ErrUnknownDocument, name)
	}

	return rt.page(w, r, []string{name})
}

// DocumentText writes the document named by {name} as plain text, as an
// HTML fragment with ?format=html, or as text and ranges with ?format=json.
func (rt Routes) DocumentText(w http.ResponseWriter, r *http.Request) error {
	text, err := rt.App.Resolve(r.Context(), r.PathValue("name"))
	if errors.Is(err, app.ErrUnknownDocument) {
		http.Error(w, err.Error(), http.StatusNotFound)

		return nil
	}

	if err != nil {
		return err
	}

	w.Header().Set("Content-Language", request_context.FromRequest(r).Locale.String())

	switch format := r.URL.Query().Get("format"); format {
	case "", config.FormatPlain:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err = w.Write([]byte(text.String()))
	case config.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = html.Render(r.Context(), w, text)
	case formatJSON:
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(documentJSON{
			Document:  r.PathValue("name"),
			Locale:    request_context.FromRequest(r).Locale.String(),
			Annotated: richtext.AsAnnotated(text),
		})
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)

		return nil
	}

	return err
}

// InvalidateCache drops memoized outputs and returns to the index.
func (rt Routes) InvalidateCache(w http.ResponseWriter, r *http.Request) error {
	rt.App.Invalidate()

	http.Redirect(w, r, "/", http.StatusSeeOther)

	return nil
}

func (rt Routes) page(w http.ResponseWriter, r *http.Request, names []string) error {
	ctx := r.Context()
	locale := request_context.FromRequest(r).Locale

	rememberLanguage(w, r)

	title, err := rt.App.ResolveNode(ctx, titleNode)
	if err != nil {
		return err
	}

	data := views.PageData{
		Title:  title,
		Lang:   rt.App.Catalogue.Match(locale),
		Path:   r.URL.Path,
		Footer: rt.footer(),
	}

	for _, tag := range rt.App.Catalogue.Languages() {
		data.Languages = append(data.Languages, views.LanguageLink{Tag: tag, Current: tag == data.Lang})
	}

	for _, name := range names {
		text, err := rt.App.Resolve(ctx, name)
		if err != nil {
			return fmt.Errorf("resolving %q: %w", name, err)
		}

		data.Sections = append(data.Sections, views.Section{Name: name, Body: text})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", data.Lang.String())

	return views.Page(data).Render(ctx, w)
}

func (rt Routes) footer() string {
	parts := []string{
		"uitext " + config.BuildVersion,
		"mode " + rt.App.Resolver.Mode().String(),
		"syntax " + rt.App.Resolver.Syntax().Name(),
	}

	if stats, ok := rt.App.CacheStats(); ok {
		parts = append(parts, fmt.Sprintf("cache %d entries, %d hits, %d misses", stats.Len, stats.Hits, stats.Misses))
	}

	return strings.Join(parts, " · ")
}

// rememberLanguage stores an explicit ?lang= choice in the language cookie.
// ?lang=auto forgets it.
func rememberLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get(i18n.LangParam)

	switch {
	case lang == "":
		return
	case strings.EqualFold(lang, "auto"):
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.LangCookie,
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	default:
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.LangCookie,
			Value:    request_context.FromRequest(r).Locale.String(),
			Path:     "/",
			MaxAge:   int(langCookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

