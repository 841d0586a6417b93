// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit" // This is intended.
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
	HeaderRateLimitStatus    string = "RateLimit-Status" // Non-standard.
)

// excludedPaths are static assets and pages that are never limited.
var excludedPaths = []string{
	"/about",
	"/css/",
	"/icons/",
	"/img/",
	"/js/",
	"/manifest.json",
	"/robots.txt",
}

// Evaluate is the limiter middleware.
//
// Pass and block lists are consulted first. Every other request takes a token
// from the bucket of the client's network; the clipboard and assistant routes
// of an article draw from a bucket of their own.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	client, err := newClientInfo(r)
	if err != nil {
		log.Warn().Err(err).Msg("Limiter could not identify client, letting request through")
		next.ServeHTTP(w, r)

		return
	}

	logger := log.With().
		Str("ip", client.addr.String()).
		Str("network", client.network.String()).
		Logger()

	switch allowed, blocked := client.checkIPLists(); {
	case allowed:
		logger.Debug().Msg("Request allowed, IP in pass-list")
		next.ServeHTTP(w, r)

		return
	case blocked:
		logger.Warn().Msg("Request blocked, IP in block-list")
		routes.BlockPage(w, http.StatusForbidden, routes.BlockData{Reason: "IP in block-list"})

		return
	}

	if client.isLocalLink() && !config.Global.Limiter.FilterLocal {
		next.ServeHTTP(w, r)

		return
	}

	client.bucket = pickBucket(client, r)

	reason := client.bucket.take()
	reset := addRateLimitHeaders(w, client)

	setVaryHeaders(w)

	if reason != "" {
		logger.Warn().
			Bool("suspicious", client.isSuspicious).
			Str("reason", reason).
			Msg("Request blocked, exceeded rate limit")
		routes.BlockPage(w, http.StatusTooManyRequests, routes.BlockData{Reason: reason, RetryAfter: max(reset, 1)})

		return
	}

	next.ServeHTTP(w, r)
}

// pickBucket returns the bucket the request is charged to. Page requests also
// feed the network's verdict window.
func pickBucket(client *ClientInfo, r *http.Request) *bucket {
	network := client.network.String()

	if isClipboardPath(r.URL.Path) {
		return buckets.clipboard(network)
	}

	client.assess(r)

	if client.isSuspicious {
		log.Debug().
			Str("ip", client.addr.String()).
			Str("reason", client.suspiciousReason).
			Msg("Client looks suspicious")
	}

	b := buckets.network(network, client.isSuspicious)
	b.observe(client.isSuspicious)

	return b
}

// setVaryHeaders marks responses as depending on the headers used to classify clients.
func setVaryHeaders(w http.ResponseWriter) {
	if !config.Global.Limiter.CheckHeaders {
		return
	}

	for _, h := range []string{"User-Agent", "Accept", "Accept-Encoding", "Accept-Language"} {
		w.Header().Add("Vary", h)
	}
}

// addRateLimitHeaders adds rate limiting information to the response headers
// and returns the seconds until the client's bucket is full again.
func addRateLimitHeaders(w http.ResponseWriter, client *ClientInfo) int64 {
	if client == nil || client.bucket == nil {
		return 0
	}

	burst, remaining, reset, t := client.bucket.status()
	resetStr := strconv.FormatInt(reset, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}

	w.Header().Set(HeaderRateLimitStatus, t.String())

	return reset
}
