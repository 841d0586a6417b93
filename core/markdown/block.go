// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markdown

// DiagramLanguage is the fence language tag that marks a diagram instead of a code listing.
const DiagramLanguage = "mermaid"

// Block is one structural unit of a parsed document.
//
// Implementations: Heading, CodeBlock, DiagramBlock, Image, Blockquote,
// ListItem, TableHeaderRow, TableDataRow and Paragraph.
type Block interface {
	isBlock()
}

// Heading is a level 1 to 3 heading. Text is literal.
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced listing. Language may be empty.
type CodeBlock struct {
	Language string
	Body     string
}

// DiagramBlock holds the raw source of a fenced diagram.
type DiagramBlock struct {
	Source string
}

type Image struct {
	Alt string
	Src string
}

// Blockquote text is literal.
type Blockquote struct {
	Text string
}

type ListItem struct {
	Ordered bool
	Spans   []Span
}

// Cell is the inline content of a single table cell.
type Cell []Span

type TableHeaderRow struct {
	Cells []Cell
}

type TableDataRow struct {
	Cells []Cell
}

type Paragraph struct {
	Spans []Span
}

func (Heading) isBlock()        {}
func (CodeBlock) isBlock()      {}
func (DiagramBlock) isBlock()   {}
func (Image) isBlock()          {}
func (Blockquote) isBlock()     {}
func (ListItem) isBlock()       {}
func (TableHeaderRow) isBlock() {}
func (TableDataRow) isBlock()   {}
func (Paragraph) isBlock()      {}

// Diagrams returns the indices of all DiagramBlock values in blocks.
func Diagrams(blocks []Block) []int {
	var indices []int

	for i, b := range blocks {
		if _, ok := b.(DiagramBlock); ok {
			indices = append(indices, i)
		}
	}

	return indices
}
