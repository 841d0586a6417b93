// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/ashiffxd/LLM-Internals/config"
)

var errMissingClientIP = errors.New("missing client IP")

// ClientInfo represents an HTTP request with associated network and rate limiting information.
//
// Instances are ephemeral and exist only for the duration of a single HTTP request lifecycle.
type ClientInfo struct {
	addr             netip.Addr
	network          netip.Prefix
	isSuspicious     bool
	suspiciousReason string
	bucket           *bucket
}

// newClientInfo constructs a ClientInfo from an HTTP request, resolving address and network,
// but does not run any checks yet, leaving the isSuspicious and bucket fields unset.
func newClientInfo(r *http.Request) (*ClientInfo, error) {
	addr, ok := clientAddr(r)
	if !ok {
		return nil, errMissingClientIP
	}

	network, err := networkOf(addr, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix)
	if err != nil {
		return nil, fmt.Errorf("could not determine network of %s: %w", addr, err)
	}

	return &ClientInfo{
		addr:    addr,
		network: network,
	}, nil
}

// checkIPLists checks if the client's address is on the pass or block list.
//
// Returns (allowed, blocked) as a tuple - at most one can be true.
func (c *ClientInfo) checkIPLists() (allowed, blocked bool) {
	if addrMatchesList(c.addr, config.Global.Limiter.PassIPs) {
		return true, false
	}

	if addrMatchesList(c.addr, config.Global.Limiter.BlockIPs) {
		return false, true
	}

	return false, false
}

// isLocalLink returns true if the address is link-local (169.254.0.0/16 or fe80::/10).
func (c *ClientInfo) isLocalLink() bool {
	return c.addr.IsLinkLocalUnicast()
}

// assess classifies the client from its request headers.
func (c *ClientInfo) assess(r *http.Request) {
	c.isSuspicious = false
	c.suspiciousReason = ""

	if !config.Global.Limiter.CheckHeaders {
		return
	}

	if reason := suspiciousHeaders(r); reason != "" {
		c.isSuspicious = true
		c.suspiciousReason = reason
	}
}

// isExcludedPath returns true if path matches any of the excludedPaths.
func isExcludedPath(path string) bool {
	for _, p := range excludedPaths {
		if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
			return true
		}
	}

	return false
}

// isClipboardPath returns true for the raw, prompt and ask endpoints of an article.
func isClipboardPath(path string) bool {
	if !strings.HasPrefix(path, "/docs/") {
		return false
	}

	return strings.HasSuffix(path, "/raw") ||
		strings.HasSuffix(path, "/prompt") ||
		strings.Contains(path, "/ask/")
}
