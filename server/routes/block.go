// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// BlockData is the body sent to a client the limiter turned away.
type BlockData struct {
	Reason string `json:"reason"`

	// RetryAfter is the number of seconds until the client's bucket refills.
	// Zero for clients that are blocked outright.
	RetryAfter int64 `json:"retry_after,omitempty"`
}

// BlockPage answers a limited request with a small uncached JSON body.
// Pages and clipboard fetches share it, so the page script can show the
// reason when a copy button is rate limited.
func BlockPage(w http.ResponseWriter, statusCode int, data BlockData) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Content-Type", "application/json; charset=utf-8")

	if data.RetryAfter > 0 {
		h.Set("Retry-After", strconv.FormatInt(data.RetryAfter, 10))
	}

	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(data)
}
