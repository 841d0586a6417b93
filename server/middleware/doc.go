// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the course site: URL
normalisation, security and caching headers, Server-Timing, and CatchError,
which turns handler errors into the themed error page.

The chain itself is assembled in router.RegisterMiddleware. The per-network
rate limiter lives in the limiter subpackage.
*/
package middleware
