// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoadmap = `modules:
  - module: 0
    title: Getting Started
    topics:
      - title: Introduction
        slug: introduction
      - title: Quick Start
        slug: quick-start
  - module: 1
    title: Basics
    topics:
      - title: Tokens
        slug: tokens
`

func testFS(articles map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"roadmap.yaml": {Data: []byte(testRoadmap)},
	}

	for name, content := range articles {
		fsys["articles/"+name] = &fstest.MapFile{Data: []byte(content)}
	}

	return fsys
}

func validArticles() map[string]string {
	return map[string]string{
		"introduction.md": `---
module: 0
slug: introduction
title: Introduction
description: Start here.
readTime: 5
next: {module: 0, slug: quick-start}
---
# Introduction

Welcome.
`,
		"quick-start.md": `+++
module = 0
slug = "quick-start"
title = "Quick Start"
readTime = 3

[previous]
module = 0
slug = "introduction"

[next]
module = 1
slug = "tokens"
title = "What are tokens?"
+++
# Quick Start
`,
		"tokens.md": `---
module: 1
title: Tokens
readTime: 8
previous: {module: 0, slug: quick-start}
---
Tokens are pieces of text.
`,
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := Load(testFS(validArticles()))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())

	intro, ok := c.GetArticle("introduction")
	require.True(t, ok)
	assert.Equal(t, 0, intro.Module)
	assert.Equal(t, "Introduction", intro.Title)
	assert.Equal(t, "Start here.", intro.Description)
	assert.Equal(t, 5, intro.ReadTime)
	assert.Equal(t, "# Introduction\n\nWelcome.", intro.Content)
	assert.Nil(t, intro.PreviousTopic)
	require.NotNil(t, intro.NextTopic)
	assert.Equal(t, TopicLink{Module: 0, Slug: "quick-start", Title: "Quick Start"}, *intro.NextTopic)

	quick, ok := c.GetArticle("quick-start")
	require.True(t, ok)
	require.NotNil(t, quick.NextTopic)
	assert.Equal(t, "What are tokens?", quick.NextTopic.Title, "explicit link titles are kept")
	assert.Equal(t, "/docs/1/tokens", quick.NextTopic.Path())

	tokens, ok := c.GetArticle("tokens")
	require.True(t, ok, "slug falls back to the file name")
	assert.Equal(t, "/docs/1/tokens", tokens.Path())

	_, ok = c.GetArticle("missing")
	assert.False(t, ok)
}

func TestCatalogNavigation(t *testing.T) {
	t.Parallel()

	c, err := Load(testFS(validArticles()))
	require.NoError(t, err)

	slugs := make([]string, 0, c.Len())
	for _, a := range c.Articles() {
		slugs = append(slugs, a.Slug)
	}

	assert.Equal(t, []string{"introduction", "quick-start", "tokens"}, slugs)

	roadmap := c.Roadmap()
	require.Len(t, roadmap, 2)
	assert.Equal(t, "Getting Started", roadmap[0].Title)
	assert.Equal(t, 2, roadmap[1].Number())

	assert.Equal(t, []Topic{{Title: "Tokens", Slug: "tokens"}}, c.ModuleTopics(1))
	assert.Nil(t, c.ModuleTopics(7))

	first, ok := c.FirstTopic()
	require.True(t, ok)
	assert.Equal(t, "introduction", first.Slug)
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(map[string]string)
		expected []error
	}{
		{
			name: "dangling next link",
			mutate: func(a map[string]string) {
				a["tokens.md"] = "---\nmodule: 1\ntitle: Tokens\nnext: {module: 1, slug: basic-concepts}\n---\nbody\n"
			},
			expected: []error{ErrDanglingLink},
		},
		{
			name: "link module mismatch",
			mutate: func(a map[string]string) {
				a["tokens.md"] = "---\nmodule: 1\ntitle: Tokens\nprevious: {module: 1, slug: quick-start}\n---\nbody\n"
			},
			expected: []error{ErrModuleMismatch},
		},
		{
			name: "roadmap topic without article",
			mutate: func(a map[string]string) {
				delete(a, "tokens.md")
				a["quick-start.md"] = "---\nmodule: 0\ntitle: Quick Start\n---\nbody\n"
			},
			expected: []error{ErrUnknownTopic},
		},
		{
			name: "duplicate slug",
			mutate: func(a map[string]string) {
				a["copy.md"] = "---\nmodule: 1\nslug: tokens\ntitle: Tokens again\n---\nbody\n"
			},
			expected: []error{ErrDuplicateSlug},
		},
		{
			name: "negative read time and empty title",
			mutate: func(a map[string]string) {
				a["tokens.md"] = "---\nmodule: 1\nreadTime: -1\n---\nbody\n"
			},
			expected: []error{ErrInvalidField},
		},
		{
			name: "several problems are reported together",
			mutate: func(a map[string]string) {
				a["introduction.md"] = "---\nmodule: 0\ntitle: Intro\nnext: {module: 0, slug: nowhere}\nprevious: {module: 3, slug: tokens}\n---\n"
			},
			expected: []error{ErrDanglingLink, ErrModuleMismatch},
		},
		{
			name: "missing front matter",
			mutate: func(a map[string]string) {
				a["tokens.md"] = "# Tokens\n"
			},
			expected: []error{ErrNoFrontMatter},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			articles := validArticles()
			tt.mutate(articles)

			c, err := Load(testFS(articles))
			require.Error(t, err)
			assert.Nil(t, c)

			for _, want := range tt.expected {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestLoadMissingRoadmap(t *testing.T) {
	t.Parallel()

	_, err := Load(fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading roadmap")
}

func TestStore(t *testing.T) {
	t.Parallel()

	var s Store

	_, ok := s.GetArticle("introduction")
	assert.False(t, ok, "empty store has no articles")

	c, err := Load(testFS(validArticles()))
	require.NoError(t, err)

	s.Set(c)

	a, ok := s.GetArticle("introduction")
	require.True(t, ok)
	assert.Equal(t, "Introduction", a.Title)
}

func TestReloaderKeepsPreviousCatalogOnFailure(t *testing.T) {
	t.Parallel()

	fsys := testFS(validArticles())
	store := &Store{}

	var reloaded int

	r := NewReloader(store, fsys, "@every 1h")
	r.OnReload = func(*Catalog) { reloaded++ }

	require.NoError(t, r.Reload())
	first := store.Get()
	require.NotNil(t, first)

	fsys["articles/broken.md"] = &fstest.MapFile{Data: []byte("no front matter")}

	require.Error(t, r.Reload())
	assert.Same(t, first, store.Get())
	assert.Equal(t, 1, reloaded)
}

func TestReloaderRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	r := NewReloader(&Store{}, fstest.MapFS{}, "not a schedule")
	require.Error(t, r.Start())
}
