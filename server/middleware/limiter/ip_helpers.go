// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

// clientAddr extracts the client's address from an HTTP request with proxy awareness.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the connection
// comes from a private or loopback address.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	remote, err := netip.ParseAddr(host)
	if err != nil {
		log.Error().
			Str("remote_addr", r.RemoteAddr).
			Msg("Could not determine client IP")

		return netip.Addr{}, false
	}

	remote = remote.Unmap()

	if !remote.IsPrivate() && !remote.IsLoopback() {
		return remote, true
	}

	// X-Real-IP takes precedence as it's typically the originating client IP
	// when set by a trusted proxy.
	if forwarded, ok := parseForwarded(r.Header.Get("X-Real-IP")); ok {
		return forwarded, true
	}

	// Otherwise the last hop of X-Forwarded-For is the client as seen by our proxy.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if forwarded, ok := parseForwarded(parts[len(parts)-1]); ok {
			return forwarded, true
		}
	}

	return remote, true
}

func parseForwarded(value string) (netip.Addr, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return netip.Addr{}, false
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		log.Warn().
			Str("value", value).
			Msg("Ignoring malformed forwarded address")

		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// addrMatchesList checks if addr equals or falls within any entry of list.
//
// Entries are single addresses or CIDR prefixes; malformed entries are skipped.
func addrMatchesList(addr netip.Addr, list []string) bool {
	for _, entry := range list {
		entry = strings.TrimSpace(entry)

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err == nil && prefix.Contains(addr) {
				return true
			}

			continue
		}

		if other, err := netip.ParseAddr(entry); err == nil && other.Unmap() == addr {
			return true
		}
	}

	return false
}

// networkOf masks addr with the configured prefix length for its family.
func networkOf(addr netip.Addr, ipv4Prefix, ipv6Prefix int) (netip.Prefix, error) {
	bits := ipv6Prefix
	if addr.Is4() {
		bits = ipv4Prefix
	}

	return addr.Prefix(bits)
}
