// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds components that render parsed content and are shared by
several pages.
*/
package partials
