// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "strconv"

// TopicLink points at another article.
type TopicLink struct {
	Module int    `yaml:"module" toml:"module"`
	Slug   string `yaml:"slug"   toml:"slug"`
	Title  string `yaml:"title"  toml:"title"`
}

// Path returns the site path of the linked article.
func (l TopicLink) Path() string {
	return ArticlePath(l.Module, l.Slug)
}

// Article is a single course page.
type Article struct {
	Module      int
	Slug        string
	Title       string
	Description string
	// ReadTime is the estimated reading time in minutes.
	ReadTime int
	// Content is the raw markdown body without front matter.
	Content string

	PreviousTopic *TopicLink
	NextTopic     *TopicLink
}

func (a Article) Path() string {
	return ArticlePath(a.Module, a.Slug)
}

// Link returns a TopicLink pointing at a.
func (a Article) Link() TopicLink {
	return TopicLink{Module: a.Module, Slug: a.Slug, Title: a.Title}
}

// Topic is an entry of a module's navigation list.
type Topic struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
}

// Module groups topics in navigation order.
type Module struct {
	Module int     `yaml:"module"`
	Title  string  `yaml:"title"`
	Topics []Topic `yaml:"topics"`
}

// Number returns the one-based module number shown to readers.
func (m Module) Number() int {
	return m.Module + 1
}

// ArticlePath builds the site path for an article.
func ArticlePath(module int, slug string) string {
	return "/docs/" + strconv.Itoa(module) + "/" + slug
}
