// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// Sensor, media and payment features are off. Clipboard writes stay allowed
// for the copy buttons on articles.
const permissionsPolicy = "camera=(), microphone=(), geolocation=(), gyroscope=(), " +
	"magnetometer=(), accelerometer=(), usb=(), payment=(), display-capture=(), " +
	"publickey-credentials-get=(), xr-spatial-tracking=(), clipboard-write=(self)"

// baseHeaders are set on every response. HSTS is left to the reverse proxy.
var baseHeaders = http.Header{
	"Referrer-Policy":        {"no-referrer"},
	"X-Frame-Options":        {"DENY"},
	"X-Content-Type-Options": {"nosniff"},
	"Permissions-Policy":     {permissionsPolicy},
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("X-Aicourse-Version", config.BuildVersion)
	headers.Set("X-Aicourse-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP())

	next.ServeHTTP(w, r)
}

// clearSiteCache drops the browser cache once per development run, so
// edited CSS and JS are picked up without a hard reload.
var clearSiteCache sync.Once

func invalidateCacheInDevelopment(headers http.Header) {
	clearSiteCache.Do(func() {
		headers.Set("Clear-Site-Data", `"cache"`)
	})
}

// staticCacheRules maps static paths to their Cache-Control. The first
// matching rule wins; pages fall through to revalidation on every load.
var staticCacheRules = []struct {
	match func(path string) bool
	value string
}{
	{func(p string) bool { return strings.HasPrefix(p, "/icons/") }, "public, max-age=2592000"},
	{func(p string) bool { return strings.HasPrefix(p, "/img/") }, "public, max-age=1209600"},
	{func(p string) bool { return strings.HasPrefix(p, "/css/") || strings.HasPrefix(p, "/js/") }, "public, max-age=604800"},
	{func(p string) bool { return p == "/robots.txt" || p == "/manifest.json" }, "public, max-age=86400"},
}

// setCacheControl sets the default Cache-Control. Page handlers override it
// when the response depends on preference cookies.
func setCacheControl(headers http.Header, path string) {
	for _, rule := range staticCacheRules {
		if rule.match(path) {
			headers.Set("Cache-Control", rule.value)

			return
		}
	}

	headers.Set("Cache-Control", "private, no-cache")
}

// buildCSP assembles the Content-Security-Policy header. Article images may
// live on any https origin. The mermaid script origin is admitted only while
// diagrams render in the browser.
func buildCSP() string {
	script := "'self'"

	if config.Global.Diagram.Renderer == config.ClientRenderer {
		if origin := mermaidScriptOrigin(); origin != "" {
			script += " " + origin
		}
	}

	policy := [][2]string{
		{"default-src", "'self'"},
		{"base-uri", "'self'"},
		{"script-src", script},
		{"style-src", "'self' 'unsafe-inline'"},
		{"img-src", "'self' data: https:"},
		{"font-src", "'self'"},
		{"connect-src", "'self'"},
		{"media-src", "'self'"},
		{"frame-src", "'none'"},
		{"frame-ancestors", "'none'"},
		{"form-action", "'self'"},
	}

	var b strings.Builder

	for _, d := range policy {
		b.WriteString(d[0])
		b.WriteByte(' ')
		b.WriteString(d[1])
		b.WriteString("; ")
	}

	return strings.TrimSuffix(b.String(), " ")
}

func mermaidScriptOrigin() string {
	u, err := url.Parse(config.Global.Diagram.MermaidScriptURL)
	if err != nil {
		return ""
	}

	return utils.URLOrigin(u)
}
