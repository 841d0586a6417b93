// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package diagram turns the source of fenced diagram blocks into page markup.

Two renderers exist. ClientRenderer leaves the source in the page for the
browser-side mermaid script to draw. KrokiRenderer asks a Kroki server for an
SVG and sanitizes it before it reaches the page.

RenderAll renders every diagram of a document concurrently. A diagram that
fails to render leaves its slot empty; the failure is logged and never reaches
the caller.
*/
package diagram
