// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "sync/atomic"

// Default is the store used by the HTTP routes. It is set during startup.
var Default = &Store{}

// Store holds the current catalog and allows replacing it while readers are active.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)

	return s
}

// Get returns the current catalog. It is nil until the first Set.
func (s *Store) Get() *Catalog {
	return s.current.Load()
}

// Set replaces the current catalog.
func (s *Store) Set(c *Catalog) {
	s.current.Store(c)
}

// GetArticle looks up slug in the current catalog.
func (s *Store) GetArticle(slug string) (Article, bool) {
	c := s.Get()
	if c == nil {
		return Article{}, false
	}

	return c.GetArticle(slug)
}
