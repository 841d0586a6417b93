// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiffxd/LLM-Internals/server/assets"
)

const (
	// Server configuration constants.
	host      = "localhost:8282"
	authority = "http://localhost:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// client does not follow redirects so that redirect responses can be asserted.
var client = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
	Timeout: 10 * time.Second,
}

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
	ExpectedLocation   string
	ExpectedType       string
	Header             map[string]string

	// POST requests specific fields
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.Method == "" {
		c.Method = http.MethodGet
	}

	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	assets.FS = embedded

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

// TestAllRoutes requests every public route against the embedded course content.
func TestAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		// Pages
		{URL: "/", ExpectedType: "text/html"},
		{URL: "/about", ExpectedType: "text/html"},
		{URL: "/docs", ExpectedType: "text/html"},
		{URL: "/docs/0", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/docs/0/introduction"},
		{URL: "/docs/2", ExpectedStatusCode: http.StatusPermanentRedirect},
		{URL: "/docs/0/introduction", ExpectedType: "text/html"},
		{URL: "/docs/2/transformers-architecture", ExpectedType: "text/html"},
		{URL: "/docs/0/introduction?lang=es", ExpectedType: "text/html"},

		// Clipboard sources
		{URL: "/docs/0/introduction/raw", ExpectedType: "text/plain"},
		{URL: "/docs/0/introduction/prompt", ExpectedType: "text/plain"},

		// Assistant hand-off
		{URL: "/docs/0/introduction/ask/claude", ExpectedStatusCode: http.StatusSeeOther},
		{URL: "/docs/0/introduction/ask/unknown", ExpectedStatusCode: http.StatusNotFound},

		// Static files
		{URL: "/robots.txt"},
		{URL: "/manifest.json"},
		{URL: "/css/style.css", ExpectedType: "text/css"},
		{URL: "/js/site.js"},
		{URL: "/icons/favicon.svg", ExpectedType: "image/svg+xml"},

		// Aliases and canonical forms
		{URL: "/favicon.ico", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/icons/favicon.svg"},
		{URL: "/index.html", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/"},
		{URL: "/docs/", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/docs"},
		{URL: "/docs/0/Introduction", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/docs/0/introduction"},
		{URL: "/es/docs", ExpectedStatusCode: http.StatusMovedPermanently, ExpectedLocation: "/docs?lang=es"},

		// Missing content
		{URL: "/docs/9", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/docs/0/does-not-exist", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/docs/1/introduction", ExpectedStatusCode: http.StatusPermanentRedirect, ExpectedLocation: "/docs/0/introduction"},
		{URL: "/nowhere", ExpectedStatusCode: http.StatusNotFound, ExpectedType: "text/html"},

		// Settings
		{
			URL:                "/settings/theme",
			Method:             http.MethodPost,
			ExpectedStatusCode: http.StatusSeeOther,
			ExpectedLocation:   "/docs",
			FormData:           map[string]string{"theme": "dark", "returnPath": "/docs"},
		},
		{
			URL:                "/settings/sidebar",
			Method:             http.MethodPost,
			ExpectedStatusCode: http.StatusNoContent,
			Header:             map[string]string{"Fast-Request": "true"},
			FormData:           map[string]string{"module": "2"},
		},
		{
			URL:                "/settings/theme",
			Method:             http.MethodPost,
			ExpectedStatusCode: http.StatusBadRequest,
			FormData:           map[string]string{"theme": "sepia"},
		},
		{
			URL:                "/settings/nothing",
			Method:             http.MethodPost,
			ExpectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc.setDefault()

		t.Run(tc.Method+" "+tc.URL, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, authority+tc.URL, tc.Method, tc.FormData)
			for k, v := range tc.Header {
				req.Header.Set(k, v)
			}

			resp := makeRequest(t, req)
			defer resp.Body.Close()

			_, _ = io.Copy(io.Discard, resp.Body)

			assert.Equal(t, tc.ExpectedStatusCode, resp.StatusCode)

			if tc.ExpectedLocation != "" {
				assert.Equal(t, tc.ExpectedLocation, resp.Header.Get("Location"))
			}

			if tc.ExpectedType != "" {
				assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tc.ExpectedType),
					"Content-Type %q", resp.Header.Get("Content-Type"))
			}
		})
	}
}

// TestPromptMentionsArticle checks that the prompt served for assistants
// carries the article title and its raw markdown.
func TestPromptMentionsArticle(t *testing.T) {
	t.Parallel()

	resp := makeRequest(t, buildRequest(t, authority+"/docs/0/introduction/prompt", http.MethodGet, nil))
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	raw := makeRequest(t, buildRequest(t, authority+"/docs/0/introduction/raw", http.MethodGet, nil))
	defer raw.Body.Close()

	article, err := io.ReadAll(raw.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), strings.TrimSpace(string(article)))
}

func buildRequest(t *testing.T, link, method string, formData map[string]string) *http.Request {
	t.Helper()

	var body io.Reader

	if formData != nil {
		form := url.Values{}
		for k, v := range formData {
			form.Set(k, v)
		}

		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
