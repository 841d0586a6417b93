// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package assistant hands articles to external chat assistants.
package assistant

import (
	"errors"
	"fmt"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
)

var ErrUnknownPlatform = errors.New("unknown assistant platform")

// promptPrefix starts every synthesized prompt.
const promptPrefix = "I want help about this topic: "

// Platform is an enabled external assistant.
type Platform = config.AssistantPlatform

// Prompt wraps the article in a request for help.
func Prompt(article catalog.Article) string {
	return promptPrefix + article.Title + "\n\n" + article.Content
}

// Platforms returns the enabled platforms in configured order.
//
// An empty configuration enables every built-in platform.
func Platforms() []Platform {
	names := config.Global.Assistant.Platforms
	if len(names) == 0 {
		return append([]Platform(nil), config.BuiltInAssistantPlatforms...)
	}

	platforms := make([]Platform, 0, len(names))

	for _, name := range names {
		if p, ok := config.LookupAssistantPlatform(name); ok {
			platforms = append(platforms, p)
		}
	}

	return platforms
}

// Lookup returns the enabled platform called name.
func Lookup(name string) (Platform, error) {
	for _, p := range Platforms() {
		if p.Name == name {
			return p, nil
		}
	}

	return Platform{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
}
