// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package markdown turns article bodies written in a small markdown subset into
a flat sequence of typed blocks.

Parse scans the content line by line and classifies each line on its own
(headings, images, blockquotes, list items, table rows, paragraphs). The only
state carried between lines is whether a fenced code block is open.
FormatInline splits a single line into plain, bold, italic and code spans.

Neither function fails. Malformed input degrades to a less specific block kind
or to plain text.

Nesting is not supported: there are no lists inside blockquotes, no nested
lists and no spans inside spans.
*/
package markdown
