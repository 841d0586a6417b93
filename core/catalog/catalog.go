// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const (
	roadmapFile = "roadmap.yaml"
	articlesDir = "articles"
)

var ErrArticleNotFound = errors.New("article not found")

// Catalog is a validated, read-only set of articles and the roadmap that
// orders them.
type Catalog struct {
	articles map[string]Article
	modules  []Module
}

type roadmapFileData struct {
	Modules []Module `yaml:"modules"`
}

// Load reads and validates the catalog stored in fsys.
//
// Every validation problem is reported in the returned error, joined with
// errors.Join. Each wraps one of the sentinel errors of this package.
func Load(fsys fs.FS) (*Catalog, error) {
	roadmapData, err := fs.ReadFile(fsys, roadmapFile)
	if err != nil {
		return nil, fmt.Errorf("reading roadmap: %w", err)
	}

	var roadmap roadmapFileData
	if err := yaml.Unmarshal(roadmapData, &roadmap); err != nil {
		return nil, fmt.Errorf("decoding roadmap: %w", err)
	}

	files, err := fs.Glob(fsys, path.Join(articlesDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	articles := make([]Article, 0, len(files))

	var errs []error

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		article, err := parseArticle(string(data))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		if article.Slug == "" {
			article.Slug = strings.TrimSuffix(path.Base(name), ".md")
		}

		articles = append(articles, article)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return New(articles, roadmap.Modules)
}

// New builds a catalog from already decoded articles and modules.
//
// Links without a title receive the title of the article they point at.
func New(articles []Article, modules []Module) (*Catalog, error) {
	c := &Catalog{
		articles: make(map[string]Article, len(articles)),
		modules:  slices.Clone(modules),
	}

	if err := c.validate(articles); err != nil {
		return nil, err
	}

	for slug, a := range c.articles {
		a.PreviousTopic = c.completeLink(a.PreviousTopic)
		a.NextTopic = c.completeLink(a.NextTopic)
		c.articles[slug] = a
	}

	slices.SortStableFunc(c.modules, func(a, b Module) int {
		return a.Module - b.Module
	})

	for _, a := range c.articles {
		if !c.inRoadmap(a.Slug) {
			log.Warn().
				Str("sys", "catalog").
				Str("slug", a.Slug).
				Msg("Article is not listed in the roadmap")
		}
	}

	return c, nil
}

func parseArticle(content string) (Article, error) {
	fm, body, err := parseFrontMatter(content)
	if err != nil {
		return Article{}, err
	}

	return Article{
		Module:        fm.Module,
		Slug:          fm.Slug,
		Title:         fm.Title,
		Description:   fm.Description,
		ReadTime:      fm.ReadTime,
		Content:       body,
		PreviousTopic: fm.Previous,
		NextTopic:     fm.Next,
	}, nil
}

func (c *Catalog) completeLink(link *TopicLink) *TopicLink {
	if link == nil {
		return nil
	}

	completed := *link
	if completed.Title == "" {
		completed.Title = c.articles[link.Slug].Title
	}

	return &completed
}

func (c *Catalog) inRoadmap(slug string) bool {
	for _, m := range c.modules {
		for _, t := range m.Topics {
			if t.Slug == slug {
				return true
			}
		}
	}

	return false
}

// GetArticle returns the article with the given slug.
func (c *Catalog) GetArticle(slug string) (Article, bool) {
	a, ok := c.articles[slug]

	return a, ok
}

// Articles returns all articles in roadmap order. Articles missing from the
// roadmap are appended sorted by slug.
func (c *Catalog) Articles() []Article {
	out := make([]Article, 0, len(c.articles))
	seen := make(map[string]bool, len(c.articles))

	for _, m := range c.modules {
		for _, t := range m.Topics {
			out = append(out, c.articles[t.Slug])
			seen[t.Slug] = true
		}
	}

	var rest []string

	for slug := range c.articles {
		if !seen[slug] {
			rest = append(rest, slug)
		}
	}

	slices.Sort(rest)

	for _, slug := range rest {
		out = append(out, c.articles[slug])
	}

	return out
}

// Roadmap returns the modules sorted by module number.
func (c *Catalog) Roadmap() []Module {
	return slices.Clone(c.modules)
}

// Module returns the roadmap entry for module n.
func (c *Catalog) Module(n int) (Module, bool) {
	for _, m := range c.modules {
		if m.Module == n {
			return m, true
		}
	}

	return Module{}, false
}

// ModuleTopics returns the topics of module n, or nil if there is no such module.
func (c *Catalog) ModuleTopics(n int) []Topic {
	m, ok := c.Module(n)
	if !ok {
		return nil
	}

	return slices.Clone(m.Topics)
}

// FirstTopic returns the first article of the first module that has topics.
func (c *Catalog) FirstTopic() (Article, bool) {
	for _, m := range c.modules {
		if len(m.Topics) > 0 {
			return c.GetArticle(m.Topics[0].Slug)
		}
	}

	return Article{}, false
}

func (c *Catalog) Len() int {
	return len(c.articles)
}
