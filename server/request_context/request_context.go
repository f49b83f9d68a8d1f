// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context provides per-request state management for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"

	"github.com/rs/xid"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/i18n"
)

// LocaleFunc picks the locale of a request.
type LocaleFunc func(r *http.Request) language.Tag

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID is an identifier for tracing requests.
	RequestID string

	// Holds any critical error encountered during request processing.
	//
	// Automatically populated by middleware.CatchError when handlers return errors,
	// which interrupts normal response handling and renders an error page instead.
	RequestError error

	// HTTP status code to be sent in the response. Defaults to 200 OK.
	StatusCode int

	// Locale is the matched locale, also installed with [i18n.WithTag].
	Locale language.Tag
}

// requestContextKeyType defines a unique type for a RequestContext key.
type requestContextKeyType struct{}

// requestContextKey is a unique key used to access RequestContext
// values from a context.Context.
var requestContextKey = requestContextKeyType{}

// WithRequestContext initializes a new request context and attaches it to
// the parent context. A nil locale leaves the locale undetermined, which
// providers treat as their base locale.
func WithRequestContext(ctx context.Context, r *http.Request, locale LocaleFunc) context.Context {
	tag := language.Und
	if locale != nil {
		tag = locale(r)
	}

	rc := RequestContext{
		RequestID:  xid.New().String(),
		StatusCode: http.StatusOK,
		Locale:     tag,
	}

	ctx = i18n.WithTag(ctx, tag)

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext extracts the RequestContext from a context, always returning
// a valid pointer.
//
// If no context is found, returns a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{StatusCode: http.StatusOK}
}

// FromRequest is a convenience wrapper for extracting RequestContext
// directly from HTTP requests.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
