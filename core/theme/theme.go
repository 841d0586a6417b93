// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package theme defines the site's colour schemes.
package theme

// Theme is the colour scheme a page and its diagrams are drawn in.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used until the client picks a theme.
const Default = Light

// Parse maps a cookie or form value to a Theme, falling back to Default.
func Parse(value string) Theme {
	switch Theme(value) {
	case Light, Dark:
		return Theme(value)
	default:
		return Default
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}

	return Dark
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}
