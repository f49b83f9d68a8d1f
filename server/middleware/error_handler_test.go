// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/server/request_context"
)

// createTestRequest creates a test HTTP request with request context.
func createTestRequest(t *testing.T) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := request_context.WithRequestContext(req.Context(), req, func(*http.Request) language.Tag {
		return language.French
	})

	return req.WithContext(ctx)
}

func TestCatchErrorSuccess(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusAccepted)
		_, err := w.Write([]byte("bonjour"))

		return err
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "bonjour", rr.Body.String())

	ctx := request_context.FromRequest(req)
	require.NoError(t, ctx.RequestError)
	assert.Equal(t, http.StatusAccepted, ctx.StatusCode)
}

func TestCatchErrorHandlerError(t *testing.T) {
	t.Parallel()

	testError := errors.New("test handler error")
	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		_, _ = w.Write([]byte("partial output"))

		return testError
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "partial output")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	assert.Contains(t, doc.Find("p.error").Text(), testError.Error())

	ctx := request_context.FromRequest(req)
	require.ErrorIs(t, ctx.RequestError, testError)
	assert.Equal(t, http.StatusInternalServerError, ctx.StatusCode)
}

func TestCatchErrorNotFound(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)

		return nil
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}
