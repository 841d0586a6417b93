// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import "net/http"

// RequestOptions are parameters for Do.
type RequestOptions struct {
	Method string
	URL    string

	// Payload is sent as the request body for POST requests.
	Payload     []byte
	ContentType string
	Accept      string

	// IncomingHeaders are the headers of the downstream request that caused
	// this one. Only cache directives are honoured.
	IncomingHeaders http.Header

	// Cacheable marks a POST request as idempotent so that its response may be
	// cached under a key derived from the URL and payload. GET requests are
	// always cacheable.
	Cacheable bool
}
