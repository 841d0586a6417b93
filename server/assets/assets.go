// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.
*/
package assets

import (
	"embed"
	"io/fs"
)

// FS provides access to the embedded file system.
//
// main assigns the embedded content at startup. Tests may substitute an fstest.MapFS.
var FS fs.FS = embed.FS{}
