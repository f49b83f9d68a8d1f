// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/uitext/uitext/server/request_context"
	"codeberg.org/uitext/uitext/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// The handler's output is buffered. After it runs:
//   - If it returned an error without writing an error status (status < 400),
//     the buffered response is discarded and a 500 error page is rendered.
//   - If it wrote a 404 Not Found status, the buffered response is replaced
//     with the generic error page.
//   - Otherwise the buffered response is written to the client.
//
// Finally, the completed request is logged.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)
		start := time.Now()

		recorder := httptest.NewRecorder()

		// Execute the handler, capturing its output and any returned error.
		err := handler(recorder, r)

		ctx.RequestError = err

		switch {
		case (err != nil && recorder.Code < http.StatusBadRequest) || recorder.Code == http.StatusNotFound:
			if recorder.Code == http.StatusNotFound {
				ctx.StatusCode = http.StatusNotFound
			} else {
				ctx.StatusCode = http.StatusInternalServerError
			}

			w.WriteHeader(ctx.StatusCode)
			routes.ErrorPage(w, r) // ErrorPage uses ctx.RequestError and ctx.StatusCode

		default:
			ctx.StatusCode = recorder.Code // httptest.NewRecorder starts at 200

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		event := log.Debug()
		if ctx.RequestError != nil {
			event = log.Warn().Err(ctx.RequestError)
		}

		event.
			Str("sys", "server").
			Str("request_id", ctx.RequestID).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Str("locale", ctx.Locale.String()).
			Int("status_code", ctx.StatusCode).
			Dur("dur", time.Since(start)).
			Send()
	}
}
