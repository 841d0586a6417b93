// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/ashiffxd/LLM-Internals/i18n"
)

// langPrefixPaths defines paths for which we should handle a "/{lang}/" prefix.
var langPrefixPaths = []string{
	"docs",
	"about",
}

// langPrefixRegexp matches a two letter language segment with an optional region, e.g. "/pt-BR/".
var langPrefixRegexp = regexp.MustCompile(`^/([a-z]{2}(?:-[A-Za-z]{2})?)/`)

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Moving a /{lang}/ prefix on supported paths into the lang query parameter.
// 2. Removing trailing slashes from URLs (except root).
// 3. Lowercasing documentation paths, since topic slugs are lowercase.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if lang, rest, ok := cutLangPrefix(r.URL.Path); ok {
		removeLangPrefix(w, r, lang, rest)

		return
	}

	// Check for trailing slash and redirect if found
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	if strings.HasPrefix(r.URL.Path, "/docs/") && r.URL.Path != strings.ToLower(r.URL.Path) {
		target := *r.URL
		target.Path = strings.ToLower(r.URL.Path)
		target.RawPath = ""

		http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)

		return
	}

	// No normalization needed, continue to next handler
	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL
	target.Path = strings.TrimRight(target.Path, "/")
	target.RawPath = ""

	if target.Path == "" {
		target.Path = "/"
	}

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}

// cutLangPrefix reports whether path starts with a language segment followed
// by one of langPrefixPaths, and returns the language and the remaining path.
func cutLangPrefix(path string) (lang, rest string, ok bool) {
	m := langPrefixRegexp.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}

	rest = path[len(m[1])+1:]

	for _, valid := range langPrefixPaths {
		if rest == "/"+valid || strings.HasPrefix(rest, "/"+valid+"/") {
			return m[1], rest, true
		}
	}

	return "", "", false
}

// removeLangPrefix redirects to the path without the language segment, keeping
// the language as a query parameter.
func removeLangPrefix(w http.ResponseWriter, r *http.Request, lang, rest string) {
	target := *r.URL
	target.Path = rest
	target.RawPath = ""

	query := target.Query()
	if query.Get(i18n.LangParam) == "" {
		query.Set(i18n.LangParam, lang)
	}

	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusMovedPermanently)
}
