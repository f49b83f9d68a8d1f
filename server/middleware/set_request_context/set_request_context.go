// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/uitext/uitext/server/middleware"
	"codeberg.org/uitext/uitext/server/request_context"
)

// WithRequestContext returns a middleware that attaches a RequestContext,
// with the locale picked by locale, to each HTTP request.
func WithRequestContext(locale request_context.LocaleFunc) middleware.Middleware {
	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		next.ServeHTTP(w, r.WithContext(request_context.WithRequestContext(r.Context(), r, locale)))
	}
}
