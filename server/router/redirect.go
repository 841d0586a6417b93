// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects well-known alias paths to the pages that serve them.
//
// Add more aliases in (*Router).DefineRoutes

package router

import (
	"net/http"
)

// permanentRedirect is a helper function to redirect requests to
// a fixed target path while preserving the query string.
//
// Example:   /index.html?lang=es   ->   /?lang=es
func permanentRedirect(targetPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := targetPath
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
