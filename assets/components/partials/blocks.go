// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/core/idgen"
	"github.com/ashiffxd/LLM-Internals/core/markdown"
)

// Spans renders inline spans. Styled spans map to strong, em and code.
func Spans(spans []markdown.Span) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		writeSpans(hw, spans)

		return hw.Err()
	})
}

func writeSpans(hw *Writer, spans []markdown.Span) {
	for _, s := range spans {
		switch s := s.(type) {
		case markdown.Bold:
			hw.Raw("<strong>")
			hw.Text(string(s))
			hw.Raw("</strong>")
		case markdown.Italic:
			hw.Raw("<em>")
			hw.Text(string(s))
			hw.Raw("</em>")
		case markdown.Code:
			hw.Raw(`<code class="inline-code">`)
			hw.Text(string(s))
			hw.Raw("</code>")
		default:
			hw.Text(s.Text())
		}
	}
}

// Blocks renders a parsed document.
//
// Consecutive list items of the same kind share one list element and
// consecutive table rows share one table. diagrams maps block indexes to
// rendered diagram markup; a DiagramBlock without an entry renders as an
// empty slot.
func Blocks(blocks []markdown.Block, diagrams map[int]template.HTML) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)

		for i := 0; i < len(blocks); i++ {
			switch b := blocks[i].(type) {
			case markdown.ListItem:
				i = writeList(hw, blocks, i) - 1
			case markdown.TableHeaderRow, markdown.TableDataRow:
				i = writeTable(hw, blocks, i) - 1
			case markdown.DiagramBlock:
				writeDiagram(hw, i, b, diagrams[i])
			default:
				writeBlock(hw, i, b)
			}
		}

		return hw.Err()
	})
}

func writeBlock(hw *Writer, i int, b markdown.Block) {
	switch b := b.(type) {
	case markdown.Heading:
		tag := "h" + strconv.Itoa(b.Level+1) // the page title is the only h1
		hw.Raw("<", tag, ` id="`)
		hw.Text(idgen.ForContent("section", i, b.Text))
		hw.Raw(`" class="heading-`, strconv.Itoa(b.Level), `">`)
		hw.Text(b.Text)
		hw.Raw("</", tag, ">\n")
	case markdown.CodeBlock:
		hw.Raw(`<div class="code-block">`)

		if b.Language != "" {
			hw.Raw(`<span class="code-language">`)
			hw.Text(b.Language)
			hw.Raw(`</span>`)
		}

		hw.Raw(`<pre><code`)

		if b.Language != "" {
			hw.Raw(` class="language-`)
			hw.Text(b.Language)
			hw.Raw(`"`)
		}

		hw.Raw(">")
		hw.Text(b.Body)
		hw.Raw("</code></pre></div>\n")
	case markdown.Image:
		hw.Raw(`<figure class="image"><img src="`)
		hw.URL(b.Src)
		hw.Raw(`" alt="`)
		hw.Text(b.Alt)
		hw.Raw(`" loading="lazy">`)

		if b.Alt != "" {
			hw.Raw("<figcaption>")
			hw.Text(b.Alt)
			hw.Raw("</figcaption>")
		}

		hw.Raw("</figure>\n")
	case markdown.Blockquote:
		hw.Raw("<blockquote>")
		hw.Text(b.Text)
		hw.Raw("</blockquote>\n")
	case markdown.Paragraph:
		hw.Raw("<p>")
		writeSpans(hw, b.Spans)
		hw.Raw("</p>\n")
	}
}

func writeDiagram(hw *Writer, i int, b markdown.DiagramBlock, markup template.HTML) {
	hw.Raw(`<figure class="diagram" id="`)
	hw.Text(idgen.ForContent("diagram", i, b.Source))
	hw.Raw(`">`)
	hw.Raw(string(markup))
	hw.Raw("</figure>\n")
}

// writeList writes the run of list items starting at start and returns the
// index after the run.
func writeList(hw *Writer, blocks []markdown.Block, start int) int {
	ordered := blocks[start].(markdown.ListItem).Ordered

	tag := "ul"
	if ordered {
		tag = "ol"
	}

	hw.Raw("<", tag, ">\n")

	i := start
	for ; i < len(blocks); i++ {
		item, ok := blocks[i].(markdown.ListItem)
		if !ok || item.Ordered != ordered {
			break
		}

		hw.Raw("<li>")
		writeSpans(hw, item.Spans)
		hw.Raw("</li>\n")
	}

	hw.Raw("</", tag, ">\n")

	return i
}

// writeTable writes the run of table rows starting at start and returns the
// index after the run.
func writeTable(hw *Writer, blocks []markdown.Block, start int) int {
	hw.Raw(`<div class="table-wrapper"><table>`, "\n")

	i := start
	for ; i < len(blocks); i++ {
		switch row := blocks[i].(type) {
		case markdown.TableHeaderRow:
			writeRow(hw, "th", row.Cells)
		case markdown.TableDataRow:
			writeRow(hw, "td", row.Cells)
		default:
			hw.Raw("</table></div>\n")

			return i
		}
	}

	hw.Raw("</table></div>\n")

	return i
}

func writeRow(hw *Writer, cellTag string, cells []markdown.Cell) {
	hw.Raw("<tr>")

	for _, cell := range cells {
		hw.Raw("<", cellTag, ">")
		writeSpans(hw, cell)
		hw.Raw("</", cellTag, ">")
	}

	hw.Raw("</tr>\n")
}
