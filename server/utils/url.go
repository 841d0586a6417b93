// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var errIncompleteURL = errors.New("URL needs a scheme and a host, e.g. https://example.com")

// ParseURL parses an absolute URL from configuration. what names the setting
// in error messages. A trailing slash on the path is dropped.
func ParseURL(raw, what string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s URL: %w", what, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s URL %q: %w", what, raw, errIncompleteURL)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u, nil
}

// PathIndex parses the path wildcard name as a non-negative decimal number,
// such as the module number in /docs/{module}.
func PathIndex(r *http.Request, name string) (int, bool) {
	v := r.PathValue(name)
	if v == "" || strings.TrimLeft(v, "0123456789") != "" {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// RequestOrigin returns scheme://host for the request. X-Forwarded-Proto
// wins over the TLS state of the connection.
func RequestOrigin(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")

	switch {
	case scheme != "":
	case r.TLS != nil:
		scheme = "https"
	default:
		scheme = "http"
	}

	return scheme + "://" + r.Host
}

// URLOrigin returns scheme://host for u, or "" for a relative URL.
func URLOrigin(u *url.URL) string {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// SanitizeReturnPath returns s when it is a path on this site, and "" when
// following it could leave the site. Callers fall back to "/".
func SanitizeReturnPath(s string) string {
	s = strings.TrimSpace(s)

	// Browsers treat "//host" and "/\host" as scheme-relative.
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, `/\`) {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return ""
	}

	return s
}
