// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits HTTP requests per client network.

Clients that do not look like browsers are not blocked outright; they count as
suspicious, and a network dominated by suspicious clients is given a tighter
token bucket until its history improves.
*/
package limiter
