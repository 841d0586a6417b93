// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateSlug   = errors.New("duplicate slug")
	ErrMissingSlug     = errors.New("missing slug")
	ErrInvalidField    = errors.New("invalid field")
	ErrDanglingLink    = errors.New("link to unknown article")
	ErrModuleMismatch  = errors.New("module mismatch")
	ErrUnknownTopic    = errors.New("roadmap topic without article")
	ErrDuplicateModule = errors.New("duplicate module")
)

// validate fills c.articles and checks all cross references.
func (c *Catalog) validate(articles []Article) error {
	var errs []error

	for _, a := range articles {
		if a.Slug == "" {
			errs = append(errs, fmt.Errorf("%w: article %q", ErrMissingSlug, a.Title))

			continue
		}

		if _, exists := c.articles[a.Slug]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateSlug, a.Slug))

			continue
		}

		if a.Module < 0 {
			errs = append(errs, fmt.Errorf("%w: %s: module %d is negative", ErrInvalidField, a.Slug, a.Module))
		}

		if a.ReadTime < 0 {
			errs = append(errs, fmt.Errorf("%w: %s: readTime %d is negative", ErrInvalidField, a.Slug, a.ReadTime))
		}

		if a.Title == "" {
			errs = append(errs, fmt.Errorf("%w: %s: empty title", ErrInvalidField, a.Slug))
		}

		c.articles[a.Slug] = a
	}

	for _, a := range c.articles {
		errs = append(errs, c.checkLink(a.Slug, "previous", a.PreviousTopic))
		errs = append(errs, c.checkLink(a.Slug, "next", a.NextTopic))
	}

	seenModules := make(map[int]bool, len(c.modules))

	for _, m := range c.modules {
		if seenModules[m.Module] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateModule, m.Module))
		}

		seenModules[m.Module] = true

		for _, t := range m.Topics {
			a, ok := c.articles[t.Slug]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: module %d lists %q", ErrUnknownTopic, m.Module, t.Slug))

				continue
			}

			if a.Module != m.Module {
				errs = append(errs, fmt.Errorf("%w: %s is in module %d but listed under module %d",
					ErrModuleMismatch, t.Slug, a.Module, m.Module))
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Catalog) checkLink(from, kind string, link *TopicLink) error {
	if link == nil {
		return nil
	}

	target, ok := c.articles[link.Slug]
	if !ok {
		return fmt.Errorf("%w: %s %s link to %q", ErrDanglingLink, from, kind, link.Slug)
	}

	if target.Module != link.Module {
		return fmt.Errorf("%w: %s %s link says module %d, %s is in module %d",
			ErrModuleMismatch, from, kind, link.Module, link.Slug, target.Module)
	}

	return nil
}
