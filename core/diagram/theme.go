// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package diagram

import (
	"encoding/json"
	"maps"

	"github.com/ashiffxd/LLM-Internals/core/theme"
)

var darkVariables = map[string]string{
	"primaryColor":       "#3b82f6",
	"primaryTextColor":   "#fff",
	"primaryBorderColor": "#60a5fa",
	"lineColor":          "#60a5fa",
	"secondaryColor":     "#1e293b",
	"tertiaryColor":      "#0f172a",
	"nodeTextColor":      "#fff",
}

var lightVariables = map[string]string{
	"primaryColor":       "#dbeafe",
	"primaryTextColor":   "#1e293b",
	"primaryBorderColor": "#3b82f6",
	"lineColor":          "#3b82f6",
	"secondaryColor":     "#f1f5f9",
	"tertiaryColor":      "#e2e8f0",
	"background":         "#ffffff",
	"mainBkg":            "#dbeafe",
	"nodeBorder":         "#3b82f6",
	"nodeTextColor":      "#1e293b",
	"fontFamily":         "inherit",
}

// ThemeVariables returns a copy of the mermaid theme variables for t.
func ThemeVariables(t theme.Theme) map[string]string {
	if t == theme.Dark {
		return maps.Clone(darkVariables)
	}

	return maps.Clone(lightVariables)
}

// mermaidConfig is the object passed to mermaid.initialize and to init directives.
type mermaidConfig struct {
	StartOnLoad    bool              `json:"startOnLoad"`
	Theme          string            `json:"theme"`
	SecurityLevel  string            `json:"securityLevel"`
	ThemeVariables map[string]string `json:"themeVariables"`
}

// MermaidConfig returns the mermaid configuration for t as JSON.
func MermaidConfig(t theme.Theme) string {
	cfg := mermaidConfig{
		StartOnLoad:    false,
		Theme:          "base",
		SecurityLevel:  "strict",
		ThemeVariables: ThemeVariables(t),
	}

	// A struct of strings and a bool cannot fail to marshal.
	b, _ := json.Marshal(cfg)

	return string(b)
}

// initDirective prefixes a diagram source with the theme configuration.
func initDirective(t theme.Theme) string {
	return "%%{init: " + MermaidConfig(t) + "}%%"
}
