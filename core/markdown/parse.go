// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markdown

import (
	"regexp"
	"strings"
)

const fenceMarker = "```"

var (
	imageRe       = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)
	orderedItemRe = regexp.MustCompile(`^\d+\.\s`)
	separatorRe   = regexp.MustCompile(`^\|[\s\-:|]+\|$`)
)

var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// fence is the state of an open fenced block.
type fence struct {
	language string
	body     []string
}

// Parse converts content into blocks in document order.
//
// CRLF line endings are treated as LF. A fence that is still open when the
// content ends is discarded together with its body.
func Parse(content string) []Block {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	var (
		blocks []Block
		open   *fence
	)

	for i, line := range lines {
		if strings.HasPrefix(line, fenceMarker) {
			if open == nil {
				open = &fence{language: strings.TrimSpace(line[len(fenceMarker):])}

				continue
			}

			blocks = append(blocks, closeFence(open))
			open = nil

			continue
		}

		if open != nil {
			open.body = append(open.body, line)

			continue
		}

		if b := parseLine(lines, i); b != nil {
			blocks = append(blocks, b)
		}
	}

	return blocks
}

func closeFence(f *fence) Block {
	body := strings.Join(f.body, "\n")
	if f.language == DiagramLanguage {
		return DiagramBlock{Source: body}
	}

	return CodeBlock{Language: f.language, Body: body}
}

// parseLine classifies a line outside of any fence. It returns nil for lines
// that produce no block.
func parseLine(lines []string, i int) Block {
	line := lines[i]

	if strings.TrimSpace(line) == "" {
		return nil
	}

	for _, h := range headingPrefixes {
		if text, ok := strings.CutPrefix(line, h.prefix); ok {
			return Heading{Level: h.level, Text: text}
		}
	}

	if m := imageRe.FindStringSubmatch(line); m != nil {
		return Image{Alt: m[1], Src: m[2]}
	}

	if text, ok := strings.CutPrefix(line, "> "); ok {
		return Blockquote{Text: text}
	}

	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return ListItem{Ordered: false, Spans: FormatInline(line[2:])}
	}

	if loc := orderedItemRe.FindStringIndex(line); loc != nil {
		return ListItem{Ordered: true, Spans: FormatInline(line[loc[1]:])}
	}

	if strings.Contains(line, "|") {
		return parseTableRow(lines, i)
	}

	return Paragraph{Spans: FormatInline(line)}
}

func parseTableRow(lines []string, i int) Block {
	if isSeparatorRow(lines[i]) {
		return nil
	}

	cells := splitCells(lines[i])

	if i > 0 && i+1 < len(lines) && isSeparatorRow(lines[i+1]) {
		return TableHeaderRow{Cells: cells}
	}

	return TableDataRow{Cells: cells}
}

func isSeparatorRow(line string) bool {
	return separatorRe.MatchString(strings.TrimSpace(line))
}

// splitCells splits a row on pipes. Only the empty fields produced by a
// leading or trailing pipe are dropped; empty cells in the middle of a row
// keep their column.
func splitCells(line string) []Cell {
	fields := strings.Split(strings.TrimSpace(line), "|")

	if len(fields) > 0 && strings.TrimSpace(fields[0]) == "" {
		fields = fields[1:]
	}

	if len(fields) > 0 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}

	cells := make([]Cell, 0, len(fields))
	for _, f := range fields {
		cells = append(cells, Cell(FormatInline(strings.TrimSpace(f))))
	}

	return cells
}
