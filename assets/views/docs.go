// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// LandingData is the data used to render the home page.
type LandingData struct {
	Modules []catalog.Module
	// FirstTopic is the entry point of the course; nil when the catalog is empty.
	FirstTopic *catalog.TopicLink
}

// Landing renders the home page.
func Landing(data LandingData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := partials.NewWriter(w)

		hw.Raw(`<section class="hero">`, "\n<h1>")
		hw.Text(i18n.Tr(ctx, "Learn how large language models work"))
		hw.Raw("</h1>\n<p>")
		hw.Text(i18n.Tr(ctx, "A hands-on course from the basics of full stack development to the internals of modern LLMs."))
		hw.Raw("</p>\n")

		if data.FirstTopic != nil {
			hw.Raw(`<a class="button primary" href="`)
			hw.URL(data.FirstTopic.Path())
			hw.Raw(`">`)
			hw.Text(i18n.Tr(ctx, "Start learning"))
			hw.Raw("</a> ")
		}

		hw.Raw(`<a class="button" href="/docs">`)
		hw.Text(i18n.Tr(ctx, "Browse modules"))
		hw.Raw("</a>\n</section>\n")

		writeModuleGrid(ctx, hw, data.Modules)

		return hw.Err()
	})

	return Layout(LayoutData{
		Description: "An educational course on AI and LLM concepts.",
	}, body)
}

// DocsIndexData is the data used to render the documentation index.
type DocsIndexData struct {
	Modules []catalog.Module
	Sidebar SidebarData
}

// DocsIndex renders /docs: a quick-start card followed by the module grid.
func DocsIndex(data DocsIndexData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := partials.NewWriter(w)

		hw.Raw("<h1>")
		hw.Text(i18n.Tr(ctx, "AI Course Documentation"))
		hw.Raw("</h1>\n", `<p class="lead">`)
		hw.Text(i18n.Tr(ctx, "Everything you need to understand and build with large language models, one module at a time."))
		hw.Raw("</p>\n")

		hw.Raw(`<a class="card quick-start" href="`, catalog.ArticlePath(0, "introduction"), `">`, "<h2>")
		hw.Text(i18n.Tr(ctx, "New to AI?"))
		hw.Raw("</h2><p>")
		hw.Text(i18n.Tr(ctx, "Start with the introduction and work through the modules in order."))
		hw.Raw("</p></a>\n<h2>")
		hw.Text(i18n.Tr(ctx, "Explore Modules"))
		hw.Raw("</h2>\n")

		writeModuleGrid(ctx, hw, data.Modules)

		return hw.Err()
	})

	sidebar := data.Sidebar

	return Layout(LayoutData{
		Title:   "Documentation",
		Sidebar: &sidebar,
	}, body)
}

func writeModuleGrid(ctx context.Context, hw *partials.Writer, modules []catalog.Module) {
	hw.Raw(`<div class="module-grid">`, "\n")

	for _, m := range modules {
		hw.Raw(`<section class="card module-card">`, `<span class="badge">`)
		hw.Text(i18n.Tr(ctx, "Module {{.Number}}", "Number", m.Number()))
		hw.Raw("</span><h3>")
		hw.Text(m.Title)
		hw.Raw("</h3>\n<ul>\n")

		for _, t := range m.Topics {
			hw.Raw(`<li><a href="`)
			hw.URL(catalog.ArticlePath(m.Module, t.Slug))
			hw.Raw(`">`)
			hw.Text(t.Title)
			hw.Raw("</a></li>\n")
		}

		hw.Raw("</ul>\n</section>\n")
	}

	hw.Raw("</div>\n")
}
