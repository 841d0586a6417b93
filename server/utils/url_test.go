// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiffxd/LLM-Internals/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"kroki", "https://kroki.io", "https://kroki.io", false},
		{"trailing slash", "https://kroki.io/", "https://kroki.io", false},
		{"path with trailing slash", "http://localhost:8000/kroki/", "http://localhost:8000/kroki", false},
		{"query kept", "https://github.com/x/y?tab=readme", "https://github.com/x/y?tab=readme", false},
		{"missing scheme", "kroki.io", "", true},
		{"missing host", "https://", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.raw, "Kroki")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Kroki")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPathIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"007", 7, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1a", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/docs", nil)
			req.SetPathValue("module", tt.value)

			got, ok := utils.PathIndex(req, "module")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/docs/1/tokens", "/docs/1/tokens"},
		{"  /about ", "/about"},
		{"/docs?lang=es", "/docs?lang=es"},
		{"/search?next=https://example.com", "/search?next=https://example.com"},
		{"", ""},
		{"docs", ""},
		{"//evil.example", ""},
		{`/\evil.example`, ""},
		{"https://evil.example/docs", ""},
		{"javascript:alert(1)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.SanitizeReturnPath(tt.in))
		})
	}
}

func TestURLOrigin(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.jsdelivr.net", utils.URLOrigin(u))
	assert.Empty(t, utils.URLOrigin(&url.URL{Path: "/js/mermaid.min.js"}))
	assert.Empty(t, utils.URLOrigin(nil))
}

func TestRequestOrigin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Host = "course.example"
	assert.Equal(t, "http://course.example", utils.RequestOrigin(req))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://course.example", utils.RequestOrigin(req))

	req.TLS = nil
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://course.example", utils.RequestOrigin(req))
}

func TestIsConnectionSecure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		proto      string
		tls        bool
		want       bool
	}{
		{"direct TLS", "203.0.113.7:443", "", true, true},
		{"plain", "192.168.1.2:5000", "", false, false},
		{"private proxy", "10.0.0.5:5000", "https", false, true},
		{"loopback proxy", "127.0.0.1:5000", "https", false, true},
		{"mapped private proxy", "[::ffff:192.168.0.9]:5000", "https", false, true},
		{"public proxy", "203.0.113.7:5000", "https", false, false},
		{"private proxy over http", "10.0.0.5:5000", "http", false, false},
		{"bad remote address", "nonsense", "https", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}

			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}

			assert.Equal(t, tt.want, utils.IsConnectionSecure(req))
		})
	}
}
