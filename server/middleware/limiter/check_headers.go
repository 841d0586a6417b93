// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// headerCheck inspects one aspect of a request and returns why it does not
// look like a browser, or "".
type headerCheck func(r *http.Request) string

// headerChecks run in order; the first reason wins.
var headerChecks = []headerCheck{
	checkUserAgent,
	checkAccept,
	checkAcceptEncoding,
	checkAcceptLanguage,
	checkFetchMetadata,
}

// crawlerMarkers are lowercase User-Agent fragments of crawlers, dataset
// scrapers and HTTP libraries.
var crawlerMarkers = []string{
	// AI training and answer-engine crawlers.
	"amazonbot", "anthropic-ai", "applebot-extended", "bytespider", "ccbot",
	"claudebot", "cohere-ai", "diffbot", "gptbot", "imagesiftbot",
	"meta-externalagent", "omgili", "perplexitybot", "youbot",
	// Search and SEO crawlers.
	"ahrefsbot", "baiduspider", "bingbot", "blexbot", "dotbot", "googlebot",
	"mj12bot", "petalbot", "semrushbot", "yandexbot",
	// Libraries and command line tools.
	"aiohttp", "curl", "go-http-client", "headlesschrome", "httpx", "java/",
	"libwww-perl", "node-fetch", "okhttp", "python", "scrapy", "wget",
}

// commonEncodings holds content codings every browser accepts.
var commonEncodings = []string{"gzip", "deflate", "identity"}

// fetchMetadata lists the Fetch Metadata headers browsers send over HTTPS.
var fetchMetadata = []string{"Sec-Fetch-Dest", "Sec-Fetch-Mode", "Sec-Fetch-Site"}

// resource is the kind of response a path serves.
type resource struct {
	name  string
	types []string // Accept substrings, any of which is enough
}

var (
	resPage   = resource{"page", []string{"text/html"}}
	resText   = resource{"text resource", []string{"text/plain"}}
	resScript = resource{"script", []string{"application/javascript", "text/javascript"}}
	resStyle  = resource{"stylesheet", []string{"text/css"}}
	resImage  = resource{"image", []string{"image/"}}
	resJSON   = resource{"JSON file", []string{"application/json", "application/manifest+json"}}
)

var resourceByExt = map[string]resource{
	".css":  resStyle,
	".gif":  resImage,
	".jpeg": resImage,
	".jpg":  resImage,
	".js":   resScript,
	".json": resJSON,
	".png":  resImage,
	".svg":  resImage,
	".txt":  resText,
	".webp": resImage,
}

// resourceOf classifies p. The raw and prompt endpoints of an article answer
// with plain text; everything without a known extension is a page.
func resourceOf(p string) resource {
	if res, ok := resourceByExt[strings.ToLower(path.Ext(p))]; ok {
		return res
	}

	if strings.HasSuffix(p, "/raw") || strings.HasSuffix(p, "/prompt") {
		return resText
	}

	return resPage
}

// suspiciousHeaders reports why r does not look like it came from a browser.
// It returns "" for requests that pass every check.
func suspiciousHeaders(r *http.Request) string {
	for _, check := range headerChecks {
		if reason := check(r); reason != "" {
			return reason
		}
	}

	return ""
}

func checkUserAgent(r *http.Request) string {
	ua := strings.ToLower(r.Header.Get("User-Agent"))
	if ua == "" {
		return "User-Agent header missing or empty"
	}

	if slices.ContainsFunc(crawlerMarkers, func(m string) bool { return strings.Contains(ua, m) }) {
		return "User-Agent header matches a known bot"
	}

	return ""
}

func checkAccept(r *http.Request) string {
	if reason := checkAcceptHeader(r.URL.Path, r.Header.Get("Accept")); reason != "" {
		return "Accept header, " + reason
	}

	return ""
}

// checkAcceptHeader reports whether accept admits the resource at p.
func checkAcceptHeader(p, accept string) string {
	if strings.TrimSpace(accept) == "" {
		return "missing or empty"
	}

	if strings.Contains(accept, "*/*") {
		return ""
	}

	res := resourceOf(p)
	if slices.ContainsFunc(res.types, func(t string) bool { return strings.Contains(accept, t) }) {
		return ""
	}

	return res.name + " requires " + res.types[0] + " Accept type"
}

func checkAcceptEncoding(r *http.Request) string {
	enc := strings.ToLower(r.Header.Get("Accept-Encoding"))
	if slices.ContainsFunc(commonEncodings, func(c string) bool { return strings.Contains(enc, c) }) {
		return ""
	}

	return "Accept-Encoding header lacks a common coding"
}

func checkAcceptLanguage(r *http.Request) string {
	if strings.TrimSpace(r.Header.Get("Accept-Language")) == "" {
		return "Accept-Language header missing or empty"
	}

	return ""
}

// checkFetchMetadata requires the Sec-Fetch headers on secure connections
// only, since browsers omit them in insecure contexts.
func checkFetchMetadata(r *http.Request) string {
	if !utils.IsConnectionSecure(r) {
		return ""
	}

	var missing []string

	for _, name := range fetchMetadata {
		if r.Header.Get(name) == "" {
			missing = append(missing, name)
		}
	}

	switch len(missing) {
	case 0:
		return ""
	case 1:
		return "Missing " + missing[0] + " header"
	default:
		return "Missing Sec-Fetch headers: " + strings.Join(missing, ", ")
	}
}
