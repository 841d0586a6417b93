// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markdown

import "strings"

// Span is a run of inline text with at most one style applied.
//
// Spans never nest.
type Span interface {
	isSpan()
	// Text returns the span content without delimiters.
	Text() string
}

type (
	PlainText string
	Bold      string
	Italic    string
	Code      string
)

func (PlainText) isSpan() {}
func (Bold) isSpan()      {}
func (Italic) isSpan()    {}
func (Code) isSpan()      {}

func (s PlainText) Text() string { return string(s) }
func (s Bold) Text() string      { return string(s) }
func (s Italic) Text() string    { return string(s) }
func (s Code) Text() string      { return string(s) }

// SpansText concatenates the text of spans, dropping all styling.
func SpansText(spans []Span) string {
	var sb strings.Builder

	for _, s := range spans {
		sb.WriteString(s.Text())
	}

	return sb.String()
}

// Summary returns the plain text of the first paragraph, cut to at most limit
// runes on a word boundary. It is "" when blocks hold no paragraph.
func Summary(blocks []Block, limit int) string {
	for _, b := range blocks {
		p, ok := b.(Paragraph)
		if !ok {
			continue
		}

		text := strings.TrimSpace(PlainTextOf(p))

		runes := []rune(text)
		if len(runes) <= limit {
			return text
		}

		cut := string(runes[:limit])
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}

		return strings.TrimRight(cut, " ,.;:") + "…"
	}

	return ""
}

// PlainTextOf returns the literal text content of a block.
//
// Table rows join their cells with a single space. Code and diagram bodies are
// returned as is.
func PlainTextOf(b Block) string {
	switch b := b.(type) {
	case Heading:
		return b.Text
	case CodeBlock:
		return b.Body
	case DiagramBlock:
		return b.Source
	case Image:
		return b.Alt
	case Blockquote:
		return b.Text
	case ListItem:
		return SpansText(b.Spans)
	case Paragraph:
		return SpansText(b.Spans)
	case TableHeaderRow:
		return cellsText(b.Cells)
	case TableDataRow:
		return cellsText(b.Cells)
	default:
		return ""
	}
}

func cellsText(cells []Cell) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, SpansText(c))
	}

	return strings.Join(parts, " ")
}
