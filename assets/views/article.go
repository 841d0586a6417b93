// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
	"github.com/ashiffxd/LLM-Internals/core/markdown"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// ArticleData is the data used to render an article page.
type ArticleData struct {
	Article catalog.Article
	Blocks  []markdown.Block
	// Diagrams maps block indexes to rendered diagram markup.
	Diagrams  map[int]template.HTML
	Platforms []config.AssistantPlatform
	Sidebar   SidebarData

	// ClientDiagrams is set when diagrams are drawn by the browser.
	ClientDiagrams bool
}

// Article renders a course page.
func Article(data ArticleData) templ.Component {
	a := data.Article

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := partials.NewWriter(w)

		hw.Raw(`<article class="article">`, "\n", `<header class="article-header">`, "\n",
			`<div class="article-meta"><span class="badge">`)
		hw.Text(i18n.Tr(ctx, "Module {{.Number}}", "Number", a.Module+1))
		hw.Raw(`</span> <span class="read-time">`)
		hw.Text(i18n.TrN(ctx, "{{.Count}} min read", "{{.Count}} min read", a.ReadTime, "Count", a.ReadTime))
		hw.Raw("</span></div>\n<h1>")
		hw.Text(a.Title)
		hw.Raw("</h1>\n")

		if a.Description != "" {
			hw.Raw(`<p class="lead">`)
			hw.Text(a.Description)
			hw.Raw("</p>\n")
		}

		writeAssistantButtons(ctx, hw, a, data.Platforms)
		hw.Raw("</header>\n", `<div class="article-body">`, "\n")
		hw.Component(ctx, partials.Blocks(data.Blocks, data.Diagrams))
		hw.Raw("</div>\n")

		writeTopicNav(ctx, hw, a.PreviousTopic, a.NextTopic)
		hw.Raw("</article>\n")

		return hw.Err()
	})

	sidebar := data.Sidebar

	description := a.Description
	if description == "" {
		description = markdown.Summary(data.Blocks, 160)
	}

	return Layout(LayoutData{
		Title:          a.Title,
		Description:    description,
		Sidebar:        &sidebar,
		ClientDiagrams: data.ClientDiagrams,
	}, body)
}

// writeAssistantButtons writes the copy and ask buttons.
//
// Without scripts the copy button links to the raw text and the platform
// buttons go through the ask redirect. The page script copies the text
// behind data-copy-url to the clipboard first.
func writeAssistantButtons(ctx context.Context, hw *partials.Writer, a catalog.Article, platforms []config.AssistantPlatform) {
	hw.Raw(`<div class="assistant-actions">`)
	hw.Raw(`<a class="button copy-page" href="`, a.Path(), `/raw" data-copy-url="`, a.Path(), `/raw" data-copied-label="`)
	hw.Text(i18n.Tr(ctx, "Copied!"))
	hw.Raw(`">`)
	hw.Text(i18n.Tr(ctx, "Copy Page"))
	hw.Raw("</a>")

	for _, p := range platforms {
		hw.Raw(`<a class="button assistant-`, p.Name, `" href="`, a.Path(), `/ask/`, p.Name,
			`" data-copy-url="`, a.Path(), `/prompt" target="_blank" rel="noopener noreferrer">`)
		hw.Text(p.Label)
		hw.Raw("</a>")
	}

	hw.Raw("</div>\n")
}

func writeTopicNav(ctx context.Context, hw *partials.Writer, prev, next *catalog.TopicLink) {
	if prev == nil && next == nil {
		return
	}

	hw.Raw(`<nav class="topic-nav">`)

	if prev != nil {
		hw.Raw(`<a class="topic-prev" rel="prev" href="`)
		hw.URL(prev.Path())
		hw.Raw(`"><span>`)
		hw.Text(i18n.Tr(ctx, "Previous"))
		hw.Raw("</span>")
		hw.Text(prev.Title)
		hw.Raw("</a>")
	}

	if next != nil {
		hw.Raw(`<a class="topic-next" rel="next" href="`)
		hw.URL(next.Path())
		hw.Raw(`"><span>`)
		hw.Text(i18n.Tr(ctx, "Next"))
		hw.Raw("</span>")
		hw.Text(next.Title)
		hw.Raw("</a>")
	}

	hw.Raw("</nav>\n")
}
