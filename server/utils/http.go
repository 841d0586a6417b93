// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/netip"
	"time"
)

// HTTPClient is used for requests to diagram renderers.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			ClientSessionCache: tls.NewLRUClientSessionCache(8),
			MinVersion:         tls.VersionTLS12,
		},
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	},
}

// IsConnectionSecure reports whether the reader reached the site over HTTPS,
// either directly or through a reverse proxy on a private or loopback address
// that sets X-Forwarded-Proto.
//
// A proxy with a public address is not trusted, so such deployments get
// cookies without the Secure attribute.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	if r.Header.Get("X-Forwarded-Proto") != "https" {
		return false
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}

	addr = addr.Unmap()

	return addr.IsPrivate() || addr.IsLoopback()
}
