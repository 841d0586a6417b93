// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"time"

	"github.com/ashiffxd/LLM-Internals/core/cookie"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// Preferences last a year; every change renews the cookie.
const preferenceLifetime = 365 * 24 * time.Hour

// preference builds a site-wide cookie for name. Lax keeps preferences
// applied when a reader follows a link from another site.
func preference(r *http.Request, name cookie.CookieName, value string) *http.Cookie {
	return &http.Cookie{
		Name:     string(name),
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(preferenceLifetime.Seconds()),
		Secure:   utils.IsConnectionSecure(r),
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: http.SameSiteLaxMode,
	}
}

// GetCookie returns the decoded value of the cookie, or "" when it is absent
// or not validly escaped.
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// SetCookie stores value under name. An empty value clears the cookie.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) {
	if value == "" {
		ClearCookie(w, r, name)

		return
	}

	http.SetCookie(w, preference(r, name, value))
}

// ClearCookie tells the browser to drop the cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	c := preference(r, name, "")
	c.MaxAge = -1

	http.SetCookie(w, c)
}

// ClearAllCookies resets every preference to its default.
func ClearAllCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range cookie.AllCookieNames {
		ClearCookie(w, r, name)
	}
}
