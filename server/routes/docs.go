// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ashiffxd/LLM-Internals/assets/views"
	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
	"github.com/ashiffxd/LLM-Internals/core/assistant"
	"github.com/ashiffxd/LLM-Internals/core/catalog"
	"github.com/ashiffxd/LLM-Internals/core/diagram"
	"github.com/ashiffxd/LLM-Internals/core/markdown"
	"github.com/ashiffxd/LLM-Internals/server/request_context"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

var errCatalogNotLoaded = errors.New("content catalog is not loaded")

// DiagramRenderer draws the diagrams of article pages. main replaces it
// according to config.Global.Diagram.
var DiagramRenderer diagram.Renderer = diagram.ClientRenderer{}

// currentCatalog returns the catalog served right now.
func currentCatalog() (*catalog.Catalog, error) {
	c := catalog.Default.Get()
	if c == nil {
		return nil, errCatalogNotLoaded
	}

	return c, nil
}

// setPreferenceDependentCaching marks a response as varying with the client's preference cookies.
func setPreferenceDependentCaching(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Cookie")
}

// notFound writes a 404 status; middleware.CatchError replaces the body with the error page.
func notFound(w http.ResponseWriter, format string, args ...any) error {
	w.WriteHeader(http.StatusNotFound)

	return fmt.Errorf("%w: %s", catalog.ErrArticleNotFound, fmt.Sprintf(format, args...))
}

// lookupArticle resolves the {module} and {topic} path variables.
//
// ok is false when a response has already been written: a 404 for an unknown
// topic or a redirect to the canonical module of the topic.
func lookupArticle(w http.ResponseWriter, r *http.Request, suffix string) (article catalog.Article, ok bool, err error) {
	c, err := currentCatalog()
	if err != nil {
		return catalog.Article{}, false, err
	}

	slug := r.PathValue("topic")

	module, valid := utils.PathIndex(r, "module")
	if !valid {
		return catalog.Article{}, false, notFound(w, "invalid module %q", r.PathValue("module"))
	}

	article, found := c.GetArticle(slug)
	if !found {
		return catalog.Article{}, false, notFound(w, "%q", slug)
	}

	if article.Module != module {
		target := article.Path() + suffix
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)

		return catalog.Article{}, false, nil
	}

	return article, true, nil
}

// DocsIndexPage is the handler for /docs.
func DocsIndexPage(w http.ResponseWriter, r *http.Request) error {
	c, err := currentCatalog()
	if err != nil {
		return err
	}

	setPreferenceDependentCaching(w)

	return views.DocsIndex(views.DocsIndexData{
		Modules: c.Roadmap(),
		Sidebar: views.SidebarData{Modules: c.Roadmap()},
	}).Render(r.Context(), w)
}

// ModulePage redirects /docs/{module} to the first topic of the module.
func ModulePage(w http.ResponseWriter, r *http.Request) error {
	c, err := currentCatalog()
	if err != nil {
		return err
	}

	module, ok := utils.PathIndex(r, "module")
	if !ok {
		return notFound(w, "invalid module %q", r.PathValue("module"))
	}

	topics := c.ModuleTopics(module)
	if len(topics) == 0 {
		return notFound(w, "module %d has no topics", module)
	}

	http.Redirect(w, r, catalog.ArticlePath(module, topics[0].Slug), http.StatusPermanentRedirect)

	return nil
}

// ArticlePage is the handler for /docs/{module}/{topic}.
func ArticlePage(w http.ResponseWriter, r *http.Request) error {
	article, ok, err := lookupArticle(w, r, "")
	if !ok {
		return err
	}

	c, err := currentCatalog()
	if err != nil {
		return err
	}

	endParse := audit.Stage(r.Context(), "parse", "Parse article")
	blocks := markdown.Parse(article.Content)
	endParse()

	endDiagrams := audit.Stage(r.Context(), "diagrams", "Render diagrams")
	diagrams := diagram.RenderAll(
		r.Context(),
		DiagramRenderer,
		blocks,
		request_context.FromRequest(r).CommonData.Theme,
		config.Global.Diagram.Concurrency,
	)
	endDiagrams()

	_, clientSide := DiagramRenderer.(diagram.ClientRenderer)

	setPreferenceDependentCaching(w)

	return views.Article(views.ArticleData{
		Article:        article,
		Blocks:         blocks,
		Diagrams:       diagrams,
		Platforms:      assistant.Platforms(),
		Sidebar:        views.SidebarData{Modules: c.Roadmap(), CurrentSlug: article.Slug},
		ClientDiagrams: clientSide && len(diagrams) > 0,
	}).Render(r.Context(), w)
}

// ArticleRaw serves the raw markdown of an article for the copy page button.
func ArticleRaw(w http.ResponseWriter, r *http.Request) error {
	article, ok, err := lookupArticle(w, r, "/raw")
	if !ok {
		return err
	}

	writePlainText(w, article.Content)

	return nil
}

// ArticlePrompt serves the assistant prompt for an article.
func ArticlePrompt(w http.ResponseWriter, r *http.Request) error {
	article, ok, err := lookupArticle(w, r, "/prompt")
	if !ok {
		return err
	}

	writePlainText(w, assistant.Prompt(article))

	return nil
}

// AskPlatform sends the reader to a new conversation on an assistant platform.
func AskPlatform(w http.ResponseWriter, r *http.Request) error {
	platformName := r.PathValue("platform")

	article, ok, err := lookupArticle(w, r, "/ask/"+platformName)
	if !ok {
		return err
	}

	platform, err := assistant.Lookup(platformName)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)

		return fmt.Errorf("asking about %q: %w", article.Slug, err)
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, platform.URL, http.StatusSeeOther)

	return nil
}

func writePlainText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))

	_, _ = w.Write([]byte(text))
}
