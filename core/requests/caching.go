// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/requests/lrucache"
)

// cache holds rendered diagrams and other upstream responses. It is nil when
// caching is disabled.
var cache *responseCache

// storedResponse is the gob-encoded form of a cached response.
type storedResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Expires    time.Time
	URL        string
}

func (s *storedResponse) response() *http.Response {
	return &http.Response{
		StatusCode: s.StatusCode,
		Header:     s.Header.Clone(),
		Body:       http.NoBody,
	}
}

type responseCache struct {
	lru *lrucache.LRUCache
	ttl time.Duration
}

func newResponseCache(lru *lrucache.LRUCache, ttl time.Duration) *responseCache {
	return &responseCache{lru: lru, ttl: ttl}
}

// Setup builds the upstream response cache from config.Global.
func Setup() error {
	if !config.Global.Cache.Enabled {
		log.Info().Msg("Cache is disabled, skipping cache initialization")

		cache = nil

		return nil
	}

	lru, err := lrucache.NewLRUCache(config.Global.Cache.Size, config.Global.Cache.Compress)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	cache = newResponseCache(lru, config.Global.Cache.TTL)

	log.Info().
		Int("size", config.Global.Cache.Size).
		Bool("compress", config.Global.Cache.Compress).
		Dur("ttl", config.Global.Cache.TTL).
		Msg("Initialized upstream response cache")

	return nil
}

// cacheKey returns the key opts is cached under and whether its response
// may be stored at all. A "no-cache" directive from the reader bypasses the
// cache entirely; "no-store" still allows reads.
func cacheKey(opts RequestOptions) (key string, read, write bool) {
	if opts.Method != http.MethodGet && (opts.Method != http.MethodPost || !opts.Cacheable) {
		return "", false, false
	}

	directives := strings.ToLower(opts.IncomingHeaders.Get("Cache-Control"))
	if strings.Contains(directives, "no-cache") {
		return "", false, false
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(opts.Method + " " + opts.URL + "\n"))
	_, _ = h.Write(opts.Payload)

	return strconv.FormatUint(h.Sum64(), 16), true, !strings.Contains(directives, "no-store")
}

// lookup returns the unexpired response under key. Undecodable and stale
// entries are dropped.
func (c *responseCache) lookup(key string) (*storedResponse, bool) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}

	stored, err := decodeStored(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.lru.Remove(key)

		return nil, false
	}

	if !time.Now().Before(stored.Expires) {
		c.lru.Remove(key)

		return nil, false
	}

	return stored, true
}

func (c *responseCache) store(key, url string, resp *http.Response, body []byte) error {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(storedResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		Expires:    time.Now().Add(c.ttl),
		URL:        url,
	})
	if err != nil {
		return fmt.Errorf("encoding cached response: %w", err)
	}

	c.lru.Add(key, buf.Bytes())

	return nil
}

func decodeStored(raw []byte) (*storedResponse, error) {
	var s storedResponse
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// InvalidateURLs drops cached responses whose URL starts with one of the
// prefixes and returns how many went. It is a no-op without a cache.
func InvalidateURLs(prefixes []string) int {
	if cache == nil || len(prefixes) == 0 {
		return 0
	}

	removed := cache.lru.RemoveFunc(func(_ string, raw []byte) bool {
		stored, err := decodeStored(raw)
		if err != nil {
			return true
		}

		for _, p := range prefixes {
			if strings.HasPrefix(stored.URL, p) {
				return true
			}
		}

		return false
	})

	log.Info().Int("count", removed).Strs("prefixes", prefixes).Msg("Invalidated cached responses")

	return removed
}

// Purge drops every cached response. The catalog reloader calls it so that
// edited diagrams are rendered again.
func Purge() {
	if cache == nil {
		return
	}

	cache.lru.Purge()
	log.Info().Msg("Purged upstream response cache")
}

// CacheStats reports cache usage, or the zero value without a cache.
func CacheStats() lrucache.Stats {
	if cache == nil {
		return lrucache.Stats{}
	}

	return cache.lru.Stats()
}
