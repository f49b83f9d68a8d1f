// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
	Cookies            []*http.Cookie

	// POST requests specific fields
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = 200
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	os.Setenv("UITEXT_HOST", "127.0.0.1")
	os.Setenv("UITEXT_PORT", "8282")
	os.Setenv("UITEXT_DEV", "true")

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	langCookie := []*http.Cookie{{Name: "uitext_lang", Value: "fr"}}

	testCases := []httpTestCase{
		{URL: "/", Method: http.MethodGet},
		{URL: "/?lang=de", Method: http.MethodGet},
		{URL: "/?lang=auto", Method: http.MethodGet},
		{URL: "/", Method: http.MethodGet, Cookies: langCookie},
		{URL: "/css/style.css", Method: http.MethodGet},

		// Document pages
		{URL: "/documents/welcome", Method: http.MethodGet},
		{URL: "/documents/inbox?lang=fr", Method: http.MethodGet},
		{URL: "/documents/missing", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},

		// Document text
		{URL: "/api/documents/ordering", Method: http.MethodGet},
		{URL: "/api/documents/links?format=html", Method: http.MethodGet},
		{URL: "/api/documents/links?format=pdf", Method: http.MethodGet, ExpectedStatusCode: http.StatusBadRequest},
		{URL: "/api/documents/missing", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},

		{URL: "/no/such/page", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method, tc.Cookies))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

func TestInvalidateCache(t *testing.T) {
	t.Parallel()

	// The redirect back to the index is followed.
	tc := httpTestCase{URL: "/cache/invalidate", Method: http.MethodPost, ExpectedStatusCode: http.StatusOK}

	resp := makeRequest(t, buildRequestWithFormData(t, authority+tc.URL, tc.Method, nil, nil))
	defer resp.Body.Close()

	if resp.StatusCode != tc.ExpectedStatusCode {
		t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
	}
}

func buildRequest(t *testing.T, link, method string, cookies []*http.Cookie) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, link, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for _, v := range cookies {
		req.AddCookie(v)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")

	return req
}

func buildRequestWithFormData(t *testing.T, link, method string, formData map[string]string, cookies []*http.Cookie) *http.Request {
	t.Helper()

	form := url.Values{}

	for k, v := range formData {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for _, v := range cookies {
		req.AddCookie(v)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
