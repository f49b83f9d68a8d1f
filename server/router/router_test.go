// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/i18n"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	var cfg config.Config

	cfg.SetDefaults()

	a, err := app.Open(&cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(New(a))
	t.Cleanup(srv.Close)

	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)

	for k, v := range header {
		req.Header[k] = v
	}

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func parse(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	return doc
}

func TestIndexFollowsAcceptLanguage(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	resp := get(t, srv, "/", http.Header{"Accept-Language": {"fr-CH, fr;q=0.9, en;q=0.8"}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fr", resp.Header.Get("Content-Language"))
	assert.NotEmpty(t, resp.Header.Get("Server-Timing"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	doc := parse(t, resp)

	assert.Equal(t, "fr", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "Exemples uitext", doc.Find("title").Text())
	assert.Equal(t, "true", doc.Find(`nav.languages a[hreflang="fr"]`).AttrOr("aria-current", ""))
	assert.Equal(t, 3, doc.Find("nav.languages a").Length())

	inbox := doc.Find("section#inbox .body")
	assert.Contains(t, inbox.Text(), "Vous avez 3 nouveaux messages")
	assert.Equal(t, "Vous avez 3 nouveaux messages", inbox.Find(`span[style*="font-weight"]`).First().Text())

	link := doc.Find("section#links a[href^='https://']")
	assert.Equal(t, "documentation", link.Text())
}

func TestLanguageQuerySetsCookie(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	resp := get(t, srv, "/?lang=de", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == i18n.LangCookie {
			cookie = c
		}
	}

	require.NotNil(t, cookie)
	assert.Equal(t, "de", cookie.Value)

	// the cookie alone selects the language afterwards
	resp = get(t, srv, "/documents/welcome", http.Header{"Cookie": {i18n.LangCookie + "=de"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := parse(t, resp)
	assert.Contains(t, doc.Find("section#welcome").Text(), "Hallo, Ana!")
	assert.Equal(t, 1, doc.Find("section").Length())

	// auto ignores and forgets the cookie
	resp = get(t, srv, "/?lang=auto", http.Header{
		"Cookie":          {i18n.LangCookie + "=de"},
		"Accept-Language": {"fr"},
	})
	assert.Equal(t, "fr", resp.Header.Get("Content-Language"))

	for _, c := range resp.Cookies() {
		if c.Name == i18n.LangCookie {
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestDocumentText(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	resp := get(t, srv, "/api/documents/ordering?lang=fr", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	body := new(bytes.Buffer)
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "second vient avant first\n100 % localisé", body.String())

	resp = get(t, srv, "/api/documents/ordering?format=html", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := parse(t, resp)
	assert.Equal(t, "second", doc.Find(`span[style*="line-through"]`).Text())

	resp = get(t, srv, "/api/documents/ordering?format=json&lang=fr", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body.Reset()
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	result := gjson.Parse(body.String())
	assert.Equal(t, "ordering", result.Get("document").String())
	assert.Equal(t, "fr", result.Get("locale").String())
	assert.Equal(t, "second vient avant first\n100 % localisé", result.Get("annotated.text").String())
	assert.Equal(t, int64(1), result.Get("annotated.ranges.#").Int())
	assert.Equal(t, int64(6), result.Get("annotated.ranges.0.end").Int())
	assert.True(t, result.Get("annotated.ranges.0.style.strikethrough").Bool())

	resp = get(t, srv, "/api/documents/ordering?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv, "/api/documents/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	for _, path := range []string{"/documents/missing", "/nowhere"} {
		resp := get(t, srv, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)

		doc := parse(t, resp)
		assert.Contains(t, doc.Find("h1").Text(), "404", path)
	}
}

func TestTrailingSlashRedirects(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	resp := get(t, srv, "/documents/inbox/?lang=fr", nil)

	assert.Equal(t, http.StatusPermanentRedirect, resp.StatusCode)
	assert.Equal(t, "/documents/inbox?lang=fr", resp.Header.Get("Location"))
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	resp := get(t, srv, "/css/style.css", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
}
