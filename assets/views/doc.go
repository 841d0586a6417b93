// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders full pages.

Every page is a templ.Component wrapped in Layout. Per-request data such as
the theme and the current path is read from the request context through
fragments.CommonData.
*/
package views
