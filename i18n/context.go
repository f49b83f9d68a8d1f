// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

const (
	// LangParam is the name of the URL query parameter used by HTTP helpers to
	// read a preferred UI language as a BCP 47 tag.
	LangParam = "lang"

	// LangCookie is the name of the cookie remembering the preferred UI language.
	LangCookie = "uitext_lang"
)

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to the resolver. Passing the zero
// value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or [language.Und] if none is
// present. Providers treat Und as their base locale.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, ok := ctx.Value(tagKey).(language.Tag); ok {
			return t
		}
	}

	return language.Und
}

// Preferences returns the language preferences of r in priority order:
// 1) query parameter [LangParam]
// 2) cookie [LangCookie]
// 3) Accept-Language header
//
// Special case: if [LangParam] is "auto" (case-insensitive), the cookie is
// ignored and only the Accept-Language header is considered.
func Preferences(r *http.Request) []string {
	if r == nil {
		return nil
	}

	q := r.URL.Query().Get(LangParam)
	auto := strings.EqualFold(q, "auto")

	preferred := make([]string, 0, 3)
	if q != "" && !auto {
		preferred = append(preferred, q)
	}

	if !auto {
		if c, err := r.Cookie(LangCookie); err == nil && c.Value != "" {
			preferred = append(preferred, c.Value)
		}
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	return preferred
}

// FromRequest returns the best loaded language tag for r, following
// [Preferences]. If r is nil or nothing matches, the base locale is returned.
func (c *Catalog) FromRequest(r *http.Request) language.Tag {
	tag, _ := language.MatchStrings(c.matcher, Preferences(r)...)

	return c.canonical(tag)
}

// WithRequest resolves the language from r using [Catalog.FromRequest] and
// installs the matched tag in the returned context. It is equivalent to:
//
//	WithTag(ctx, c.FromRequest(r))
//
// The ctx must not be nil.
func (c *Catalog) WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, c.FromRequest(r))
}
