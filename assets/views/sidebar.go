// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/fragments"
	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// SidebarData lists the course roadmap.
type SidebarData struct {
	Modules []catalog.Module
	// CurrentSlug is highlighted. Empty on index pages.
	CurrentSlug string
}

// Sidebar renders the roadmap with one collapsible section per module.
//
// Expansion state comes from the client's SidebarExpanded cookie. Toggling a
// section posts to /settings/sidebar; the page script intercepts the form to
// avoid a reload.
func Sidebar(data SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cd := fragments.CommonData(ctx)
		hw := partials.NewWriter(w)

		hw.Raw(`<aside class="sidebar"><nav aria-label="`)
		hw.Text(i18n.Tr(ctx, "Course modules"))
		hw.Raw(`">`, "\n")

		for _, m := range data.Modules {
			expanded := cd.IsExpanded(m.Module)
			number := strconv.Itoa(m.Module)

			state := "collapsed"
			if expanded {
				state = "expanded"
			}

			hw.Raw(`<section class="sidebar-module `, state, `" data-module="`, number, `">`,
				`<form method="post" action="/settings/sidebar">`,
				`<input type="hidden" name="module" value="`, number, `">`,
				`<input type="hidden" name="returnPath" value="`)
			hw.Text(cd.CurrentPathWithParams)
			hw.Raw(`"><button type="submit" class="sidebar-module-toggle" aria-expanded="`, strconv.FormatBool(expanded), `">`,
				`<span class="module-number">`)
			hw.Text(i18n.Tr(ctx, "Module {{.Number}}", "Number", m.Number()))
			hw.Raw(`</span> `)
			hw.Text(m.Title)
			hw.Raw("</button></form>\n")

			hw.Raw(`<ul class="sidebar-topics"`)

			if !expanded {
				hw.Raw(" hidden")
			}

			hw.Raw(">\n")

			for _, topic := range m.Topics {
				hw.Raw(`<li><a href="`)
				hw.URL(catalog.ArticlePath(m.Module, topic.Slug))
				hw.Raw(`"`)

				if topic.Slug == data.CurrentSlug {
					hw.Raw(` class="active" aria-current="page"`)
				}

				hw.Raw(">")
				hw.Text(topic.Title)
				hw.Raw("</a></li>\n")
			}

			hw.Raw("</ul>\n")

			hw.Raw("</section>\n")
		}

		hw.Raw("</nav></aside>\n")

		return hw.Err()
	})
}
