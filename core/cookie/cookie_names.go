// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
//
// All cookies hold display preferences only.
const (
	// ThemeCookie holds "light" or "dark".
	ThemeCookie CookieName = "Theme"
	// SidebarExpandedCookie holds the comma-separated numbers of expanded sidebar modules.
	SidebarExpandedCookie CookieName = "SidebarExpanded"
	LangCookie            CookieName = "Lang" // for i18n use
)

// AllCookieNames defines all cookies that can be set by the user.
var AllCookieNames = []CookieName{
	ThemeCookie,
	SidebarExpandedCookie,
	LangCookie,
}

// IsHttpOnly reports whether scripts must be denied access to the cookie.
//
// The theme cookie is read by the page script to colour diagrams before first paint.
func IsHttpOnly(name CookieName) bool {
	return name != ThemeCookie
}
