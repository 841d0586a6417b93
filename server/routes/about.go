// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ashiffxd/LLM-Internals/assets/views"
	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
	"github.com/ashiffxd/LLM-Internals/server/assets"
)

// AboutDocumentPath is the embedded markdown file shown on /about.
const AboutDocumentPath = "content/about.md"

var aboutMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// renderAbout converts the about document once per process.
//
// The document is written by the site maintainers, so goldmark's default of
// dropping raw HTML is kept.
var renderAbout = sync.OnceValues(func() (template.HTML, error) {
	source, err := fs.ReadFile(assets.FS, AboutDocumentPath)
	if err != nil {
		return "", fmt.Errorf("reading about document: %w", err)
	}

	var buf bytes.Buffer
	if err := aboutMarkdown.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("rendering about document: %w", err)
	}

	//nolint:gosec // goldmark escapes raw HTML unless WithUnsafe is set
	return template.HTML(buf.String()), nil
})

// AboutPage is the handler for the /about page.
func AboutPage(w http.ResponseWriter, r *http.Request) error {
	endRender := audit.Stage(r.Context(), "about", "Render about document")
	body, err := renderAbout()
	endRender()

	if err != nil {
		return err
	}

	articles := 0
	if c, err := currentCatalog(); err == nil {
		articles = c.Len()
	}

	w.Header().Set("Vary", "Cookie")
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))

	pageData := views.AboutData{
		Title:    "About",
		Version:  config.BuildVersion,
		Time:     config.Global.Instance.StartingTime,
		Body:     body,
		Articles: articles,
		Renderer: string(config.Global.Diagram.Renderer),
	}

	return views.About(pageData).Render(r.Context(), w)
}
