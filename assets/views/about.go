// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// AboutData is the data used to render the about page.
type AboutData struct {
	Title   string
	Version string
	Time    string
	// Body is trusted markup rendered from the embedded about document.
	Body     template.HTML
	Articles int
	Renderer string
}

// About renders the about page.
func About(data AboutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := partials.NewWriter(w)

		hw.Raw(`<div class="prose">`, "\n", string(data.Body), "</div>\n")
		hw.Raw(`<dl class="instance-info">`, "<dt>")
		hw.Text(i18n.Tr(ctx, "Version"))
		hw.Raw("</dt><dd>")
		hw.Text(data.Version)
		hw.Raw("</dd><dt>")
		hw.Text(i18n.Tr(ctx, "Running since"))
		hw.Raw("</dt><dd>")
		hw.Text(data.Time + " UTC")
		hw.Raw("</dd><dt>")
		hw.Text(i18n.Tr(ctx, "Articles"))
		hw.Raw("</dt><dd>")
		hw.Text(i18n.TrN(ctx, "{{.Count}} article", "{{.Count}} articles", data.Articles, "Count", data.Articles))
		hw.Raw("</dd><dt>")
		hw.Text(i18n.Tr(ctx, "Diagram renderer"))
		hw.Raw("</dt><dd>")
		hw.Text(data.Renderer)
		hw.Raw("</dd></dl>\n")

		return hw.Err()
	})

	return Layout(LayoutData{Title: data.Title}, body)
}
