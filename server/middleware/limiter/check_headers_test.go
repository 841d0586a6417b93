// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"crypto/tls"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuspiciousHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		modify func(r *http.Request)
		want   string
	}{
		{
			name: "browser page request",
			path: "/docs/0/introduction",
		},
		{
			name:   "missing User-Agent",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Del("User-Agent") },
			want:   "User-Agent header missing or empty",
		},
		{
			name:   "known bot",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Set("User-Agent", "curl/8.5.0") },
			want:   "User-Agent header matches a known bot",
		},
		{
			name:   "missing Accept",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Del("Accept") },
			want:   "Accept header, missing or empty",
		},
		{
			name:   "page without text/html",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Set("Accept", "application/json") },
			want:   "Accept header, page requires text/html Accept type",
		},
		{
			name:   "raw content accepts text/plain",
			path:   "/docs/0/introduction/raw",
			modify: func(r *http.Request) { r.Header.Set("Accept", "text/plain") },
		},
		{
			name:   "stylesheet with wrong Accept",
			path:   "/css/style.css",
			modify: func(r *http.Request) { r.Header.Set("Accept", "text/html") },
			want:   "Accept header, stylesheet requires text/css Accept type",
		},
		{
			name:   "image accepts any image type",
			path:   "/img/transformer.svg",
			modify: func(r *http.Request) { r.Header.Set("Accept", "image/avif,image/webp") },
		},
		{
			name:   "no common encoding",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Set("Accept-Encoding", "br") },
			want:   "Accept-Encoding header lacks a common coding",
		},
		{
			name:   "missing Accept-Language",
			path:   "/docs",
			modify: func(r *http.Request) { r.Header.Set("Accept-Language", " ") },
			want:   "Accept-Language header missing or empty",
		},
		{
			name:   "secure request without fetch metadata",
			path:   "/docs",
			modify: func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
			want:   "Missing Sec-Fetch headers: Sec-Fetch-Dest, Sec-Fetch-Mode, Sec-Fetch-Site",
		},
		{
			name: "secure request missing one fetch header",
			path: "/docs",
			modify: func(r *http.Request) {
				r.TLS = &tls.ConnectionState{}
				r.Header.Set("Sec-Fetch-Dest", "document")
				r.Header.Set("Sec-Fetch-Mode", "navigate")
			},
			want: "Missing Sec-Fetch-Site header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := newBrowserRequest(http.MethodGet, tt.path, "203.0.113.7:1")
			if tt.modify != nil {
				tt.modify(req)
			}

			assert.Equal(t, tt.want, suspiciousHeaders(req))
		})
	}
}

func TestCheckAcceptHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		accept string
		want   string
	}{
		{"/docs", "*/*", ""},
		{"/js/site.js", "text/javascript", ""},
		{"/js/site.js", "text/css", "script requires application/javascript Accept type"},
		{"/manifest.json", "application/manifest+json", ""},
		{"/robots.txt", "text/html", "text resource requires text/plain Accept type"},
		{"/docs/2/self-attention/prompt", "text/plain", ""},
		{"/docs/2/self-attention/prompt", "text/html", "text resource requires text/plain Accept type"},
		{"/docs/2/self-attention", "", "missing or empty"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, checkAcceptHeader(tt.path, tt.accept), "%s with %q", tt.path, tt.accept)
	}
}

func TestAICrawlersAreFlagged(t *testing.T) {
	t.Parallel()

	for _, ua := range []string{
		"Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; GPTBot/1.2; +https://openai.com/gptbot)",
		"Mozilla/5.0 (compatible; ClaudeBot/1.0; +claudebot@anthropic.com)",
		"CCBot/2.0 (https://commoncrawl.org/faq/)",
		"python-httpx/0.27.0",
	} {
		req := newBrowserRequest(http.MethodGet, "/docs/1/tokens-tokenization", "203.0.113.7:1")
		req.Header.Set("User-Agent", ua)

		assert.Equal(t, "User-Agent header matches a known bot", suspiciousHeaders(req), ua)
	}
}
