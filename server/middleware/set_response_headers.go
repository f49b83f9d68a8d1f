// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"codeberg.org/uitext/uitext/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Uitext-Version and Uitext-Revision are added dynamically in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Content-Security-Policy": {strings.Join([]string{
			"base-uri 'self'",
			"default-src 'self'",
			"style-src 'self' 'unsafe-inline'",
			"img-src 'self' data:",
			"form-action 'self'",
			"frame-ancestors 'none'",
		}, "; ") + ";"},
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
//
// Inline styles are allowed because rendered text carries its span and
// paragraph styles in style attributes.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	setCacheControl(headers, r.URL.Path)

	headers.Set("Uitext-Version", config.BuildVersion)
	headers.Set("Uitext-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

// setCacheControl lets browsers keep stylesheets for a week. Pages depend on
// the language cookie and are always revalidated.
func setCacheControl(headers http.Header, path string) {
	if strings.HasPrefix(path, "/css/") && !config.Global.Development.InDevelopment {
		headers.Set("Cache-Control", "max-age=604800")

		return
	}

	headers.Set("Cache-Control", "private, no-cache")
	headers.Set("Vary", "Accept-Language, Cookie")
}
