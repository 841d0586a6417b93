// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
of byte slices.

When created with compression enabled via [NewLRUCache], values are stored zstd-compressed
whenever that saves space and are transparently decompressed by [LRUCache.Get] and [LRUCache.Peek].
*/
package lrucache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// LRUCache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [NewLRUCache]; the zero value is not ready for use.
type LRUCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.RWMutex

	// nil when compression is disabled
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheEntry struct {
	key        string
	value      []byte
	compressed bool
}

// Stats is a snapshot of cache usage counters.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// NewLRUCache creates a new cache holding at most size entries.
//
// It returns ErrInvalidSize if size is not a positive integer.
func NewLRUCache(size int, compress bool) (*LRUCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if compress {
		// A nil writer/reader allows stateless EncodeAll/DecodeAll.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add adds or updates the value for key and marks it as most recently used.
//
// If the cache is over capacity afterwards, the least recently used entry is evicted.
// Add reports whether an eviction occurred. The value is copied.
func (c *LRUCache) Add(key string, value []byte) bool {
	stored, compressed := c.encode(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		entry := ent.Value.(*cacheEntry) //nolint:forcetypeassert
		entry.value = stored
		entry.compressed = compressed

		return false
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry{
		key:        key,
		value:      stored,
		compressed: compressed,
	})

	if c.evictList.Len() <= c.size {
		return false
	}

	if oldest := c.evictList.Back(); oldest != nil {
		c.removeElement(oldest)
	}

	return true
}

// Get returns a copy of the value for key and marks it as most recently used.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	ent, ok := c.items[key]
	if !ok {
		c.lock.Unlock()
		c.misses.Add(1)

		return nil, false
	}

	c.evictList.MoveToFront(ent)
	entry := *ent.Value.(*cacheEntry) //nolint:forcetypeassert

	c.lock.Unlock()

	value, ok := c.decode(entry)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}

	return value, ok
}

// Peek is like Get but does not change the eviction order or the counters.
func (c *LRUCache) Peek(key string) ([]byte, bool) {
	c.lock.RLock()

	ent, ok := c.items[key]
	if !ok {
		c.lock.RUnlock()

		return nil, false
	}

	entry := *ent.Value.(*cacheEntry) //nolint:forcetypeassert

	c.lock.RUnlock()

	return c.decode(entry)
}

// Remove deletes key and reports whether it was present.
func (c *LRUCache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// RemoveFunc deletes every entry for which match returns true and returns the number removed.
//
// match receives the decompressed value. It must not call back into the cache.
func (c *LRUCache) RemoveFunc(match func(key string, value []byte) bool) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0

	for ent := c.evictList.Back(); ent != nil; {
		prev := ent.Prev()

		entry := ent.Value.(*cacheEntry) //nolint:forcetypeassert
		if value, ok := c.decode(*entry); !ok || match(entry.key, value) {
			c.removeElement(ent)

			removed++
		}

		ent = prev
	}

	return removed
}

// Purge deletes all entries. The counters are kept.
func (c *LRUCache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

// Keys returns all keys, from the oldest to the newest.
func (c *LRUCache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, 0, len(c.items))

	for ent := c.evictList.Back(); ent != nil; ent = ent.Prev() {
		keys = append(keys, ent.Value.(*cacheEntry).key) //nolint:forcetypeassert
	}

	return keys
}

func (c *LRUCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

func (c *LRUCache) Stats() Stats {
	return Stats{
		Len:    c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

func (c *LRUCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*cacheEntry).key) //nolint:forcetypeassert
}

// encode copies value, compressing it if that is enabled and makes it smaller.
//
// zstd encoders support concurrent EncodeAll calls, so this runs without the lock.
func (c *LRUCache) encode(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return []byte{}, false
	}

	if c.zstdEnc != nil {
		compressed := c.zstdEnc.EncodeAll(value, nil)
		if len(compressed) < len(value) {
			return compressed, true
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	return copied, false
}

// decode returns a caller-owned copy of the entry value.
func (c *LRUCache) decode(entry cacheEntry) ([]byte, bool) {
	if !entry.compressed {
		copied := make([]byte, len(entry.value))
		copy(copied, entry.value)

		return copied, true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(entry.value, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
