// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes the reader's preference cookies.

Everything read here comes from the browser and is parsed defensively: a
malformed value falls back to the default instead of failing the request.
*/
package untrusted
