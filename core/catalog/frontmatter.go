// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrNoFrontMatter           = errors.New("missing front matter")
	ErrUnterminatedFrontMatter = errors.New("unterminated front matter")
)

type frontMatter struct {
	Module      int        `yaml:"module"      toml:"module"`
	Slug        string     `yaml:"slug"        toml:"slug"`
	Title       string     `yaml:"title"       toml:"title"`
	Description string     `yaml:"description" toml:"description"`
	ReadTime    int        `yaml:"readTime"    toml:"readTime"`
	Previous    *TopicLink `yaml:"previous"    toml:"previous"`
	Next        *TopicLink `yaml:"next"        toml:"next"`
}

// parseFrontMatter splits an article file into its front matter and body.
//
// The opening delimiter selects the format: "---" for YAML, "+++" for TOML.
// The closing delimiter must be on a line of its own.
func parseFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	content = strings.TrimPrefix(strings.ReplaceAll(content, "\r\n", "\n"), "\ufeff")

	first, rest, _ := strings.Cut(content, "\n")

	delim := strings.TrimSpace(first)
	if delim != "---" && delim != "+++" {
		return fm, "", ErrNoFrontMatter
	}

	var raw, body string

	if rest == delim || strings.HasPrefix(rest, delim+"\n") {
		raw, body = "", strings.TrimPrefix(rest, delim)
	} else {
		var found bool

		raw, body, found = strings.Cut(rest, "\n"+delim+"\n")
		if !found {
			raw, found = strings.CutSuffix(rest, "\n"+delim)
			if !found {
				return fm, "", ErrUnterminatedFrontMatter
			}

			body = ""
		}
	}

	var err error

	switch delim {
	case "---":
		err = yaml.Unmarshal([]byte(raw), &fm)
	case "+++":
		err = toml.Unmarshal([]byte(raw), &fm)
	}

	if err != nil {
		return fm, "", fmt.Errorf("decoding front matter: %w", err)
	}

	return fm, strings.TrimSpace(body), nil
}
