// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/fragments"
	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/diagram"
	"github.com/ashiffxd/LLM-Internals/core/theme"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// LayoutData configures the page shell.
type LayoutData struct {
	Title       string
	Description string

	// Sidebar is drawn on documentation pages only.
	Sidebar *SidebarData

	// ClientDiagrams loads the browser-side diagram renderer.
	ClientDiagrams bool
}

// Layout wraps body in the document shell: head, header, optional sidebar and footer.
func Layout(data LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cd := fragments.CommonData(ctx)
		hw := partials.NewWriter(w)

		hw.Raw(`<!DOCTYPE html>`, "\n", `<html lang="`)
		hw.Text(i18n.TagFrom(ctx).String())
		hw.Raw(`" data-theme="`)
		hw.Text(cd.Theme.String())
		hw.Raw(`">`, "\n<head>\n",
			`<meta charset="utf-8">`, "\n",
			`<meta name="viewport" content="width=device-width, initial-scale=1">`, "\n",
			"<title>")
		hw.Text(pageTitle(data.Title, cd.SiteName))
		hw.Raw("</title>\n")

		if data.Description != "" {
			hw.Raw(`<meta name="description" content="`)
			hw.Text(data.Description)
			hw.Raw(`">`, "\n")
		}

		hw.Raw(`<link rel="canonical" href="`)
		hw.URL(cd.FullURL)
		hw.Raw(`">`, "\n",
			`<link rel="stylesheet" href="/css/style.css">`, "\n",
			`<link rel="icon" href="/icons/favicon.svg" type="image/svg+xml">`, "\n",
			`<link rel="manifest" href="/manifest.json">`, "\n",
			`<script src="/js/site.js" defer></script>`, "\n",
		)

		if data.ClientDiagrams {
			for _, t := range []theme.Theme{theme.Light, theme.Dark} {
				hw.Raw(`<script type="application/json" id="mermaid-config-`, t.String(), `">`)
				hw.Raw(diagram.MermaidConfig(t)) // json.Marshal escapes '<', so this cannot close the element
				hw.Raw("</script>\n")
			}

			hw.Raw(`<script src="`)
			hw.URL(config.Global.Diagram.MermaidScriptURL)
			hw.Raw(`" defer></script>`, "\n", `<script src="/js/diagrams.js" defer></script>`, "\n")
		}

		hw.Raw("</head>\n<body>\n")
		writeHeader(ctx, hw, cd.SiteName, cd.Theme, cd.CurrentPathWithParams)

		if data.Sidebar != nil {
			hw.Raw(`<div class="docs-layout">`, "\n")
			hw.Component(ctx, Sidebar(*data.Sidebar))
			hw.Raw(`<main class="docs-main">`, "\n")
			hw.Component(ctx, body)
			hw.Raw("</main>\n</div>\n")
		} else {
			hw.Raw(`<main class="page-main">`, "\n")
			hw.Component(ctx, body)
			hw.Raw("</main>\n")
		}

		writeFooter(ctx, hw, cd.RepoURL)
		hw.Raw("</body>\n</html>\n")

		return hw.Err()
	})
}

func pageTitle(title, siteName string) string {
	switch {
	case title == "":
		return siteName
	case siteName == "":
		return title
	default:
		return title + " · " + siteName
	}
}

func writeHeader(ctx context.Context, hw *partials.Writer, siteName string, current theme.Theme, returnPath string) {
	hw.Raw(`<header class="site-header">`, "\n", `<a class="site-name" href="/">`)
	hw.Text(siteName)
	hw.Raw(`</a>`, "\n", `<nav class="site-nav">`, `<a href="/docs">`)
	hw.Text(i18n.Tr(ctx, "Docs"))
	hw.Raw(`</a>`, `<a href="/about">`)
	hw.Text(i18n.Tr(ctx, "About"))
	hw.Raw(`</a>`, "</nav>\n")

	label := i18n.Tr(ctx, "Switch to dark theme")
	if current == theme.Dark {
		label = i18n.Tr(ctx, "Switch to light theme")
	}

	hw.Raw(`<form class="theme-toggle" method="post" action="/settings/theme">`,
		`<input type="hidden" name="theme" value="toggle">`,
		`<input type="hidden" name="returnPath" value="`)
	hw.Text(returnPath)
	hw.Raw(`"><button type="submit" aria-label="`)
	hw.Text(label)
	hw.Raw(`" title="`)
	hw.Text(label)
	hw.Raw(`">`)

	if current == theme.Dark {
		hw.Raw("☀")
	} else {
		hw.Raw("☾")
	}

	hw.Raw("</button></form>\n</header>\n")
}

func writeFooter(ctx context.Context, hw *partials.Writer, repoURL string) {
	hw.Raw(`<footer class="site-footer">`)
	hw.Text(i18n.Tr(ctx, "Version {{.Version}}", "Version", config.BuildVersion))

	if repoURL != "" {
		hw.Raw(` · <a href="`)
		hw.URL(repoURL)
		hw.Raw(`" target="_blank" rel="noopener noreferrer">`)
		hw.Text(i18n.Tr(ctx, "Source code"))
		hw.Raw(`</a>`)
	}

	hw.Raw("</footer>\n")
}
