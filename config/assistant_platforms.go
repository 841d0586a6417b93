// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// AssistantPlatform is an external chat assistant an article can be handed to.
type AssistantPlatform struct {
	// Name is the identifier used in URLs and configuration.
	Name string `yaml:"name"`
	// Label is shown on the button.
	Label string `yaml:"label"`
	// URL opens a new conversation.
	URL string `yaml:"url"`
}

// BuiltInAssistantPlatforms lists every platform that can be enabled through Assistant.Platforms.
var BuiltInAssistantPlatforms = []AssistantPlatform{
	{Name: "claude", Label: "Claude", URL: "https://claude.ai/new"},
	{Name: "gemini", Label: "Gemini", URL: "https://gemini.google.com/app"},
	{Name: "chatgpt", Label: "ChatGPT", URL: "https://chat.openai.com"},
}

// LookupAssistantPlatform returns the built-in platform with the given name.
func LookupAssistantPlatform(name string) (AssistantPlatform, bool) {
	for _, p := range BuiltInAssistantPlatforms {
		if p.Name == name {
			return p, true
		}
	}

	return AssistantPlatform{}, false
}
