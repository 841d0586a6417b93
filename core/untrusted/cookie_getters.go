// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/ashiffxd/LLM-Internals/core/cookie"
	"github.com/ashiffxd/LLM-Internals/core/theme"
)

// DefaultExpandedModule is expanded when the client has no sidebar cookie.
const DefaultExpandedModule = 0

// GetTheme returns the theme stored in the client's cookie, defaulting to light.
func GetTheme(r *http.Request) theme.Theme {
	return theme.Parse(GetCookie(r, cookie.ThemeCookie))
}

// GetExpandedModules returns the sidebar modules the client has expanded.
//
// A missing cookie means only DefaultExpandedModule is expanded. Entries that
// are not non-negative integers are ignored.
func GetExpandedModules(r *http.Request) []int {
	if _, err := r.Cookie(string(cookie.SidebarExpandedCookie)); err != nil {
		return []int{DefaultExpandedModule}
	}

	return ParseExpandedModules(GetCookie(r, cookie.SidebarExpandedCookie))
}

// ParseExpandedModules parses a comma-separated list of module numbers.
//
// The result is sorted and has no duplicates.
func ParseExpandedModules(value string) []int {
	modules := []int{}

	for field := range strings.SplitSeq(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 0 {
			continue
		}

		modules = append(modules, n)
	}

	slices.Sort(modules)

	return slices.Compact(modules)
}

// FormatExpandedModules is the inverse of ParseExpandedModules.
func FormatExpandedModules(modules []int) string {
	parts := make([]string, 0, len(modules))

	for _, m := range modules {
		parts = append(parts, strconv.Itoa(m))
	}

	return strings.Join(parts, ",")
}

// ToggleExpandedModule returns modules with module added or removed.
func ToggleExpandedModule(modules []int, module int) []int {
	if i := slices.Index(modules, module); i >= 0 {
		return slices.Delete(slices.Clone(modules), i, i+1)
	}

	out := append(slices.Clone(modules), module)
	slices.Sort(out)

	return out
}
