// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/server/assets"
	"github.com/ashiffxd/LLM-Internals/server/routes"
)

// staticPatterns are served straight from the assets directory.
// Patterns ending in "/" match the whole subtree.
var staticPatterns = []string{
	"GET /manifest.json",
	"GET /robots.txt",
	"GET /css/",
	"GET /js/",
	"GET /img/",
	"GET /icons/",
}

// DefineRoutes registers the site's pages, clipboard endpoints, settings and
// static files. Middleware is added separately by RegisterMiddleware.
func (router *Router) DefineRoutes() {
	static := staticFiles()
	for _, pattern := range staticPatterns {
		router.Handle(pattern, static)
	}

	router.HandleFunc("GET /favicon.ico", permanentRedirect("/icons/favicon.svg"))
	router.HandleFunc("GET /index.html", permanentRedirect("/"))
	router.HandleFunc("GET /docs/index", permanentRedirect("/docs"))

	router.Page("GET /{$}", routes.IndexPage)
	router.Page("GET /about", routes.AboutPage)

	router.Page("GET /docs", routes.DocsIndexPage)
	router.Page("GET /docs/{module}", routes.ModulePage)
	router.Page("GET /docs/{module}/{topic}", routes.ArticlePage)

	// Clipboard and assistant hand-off for an article.
	router.Page("GET /docs/{module}/{topic}/raw", routes.ArticleRaw)
	router.Page("GET /docs/{module}/{topic}/prompt", routes.ArticlePrompt)
	router.Page("GET /docs/{module}/{topic}/ask/{platform}", routes.AskPlatform)

	router.Page("POST /settings/{action}", routes.SettingsPOST)

	router.Page("/", routes.NotFoundPage)

	if config.Global.Development.InDevelopment {
		router.registerDebugRoutes()
	}
}

// staticFiles serves the "assets" subtree of assets.FS.
//
// Embedded files only change with a new build, so the per-instance cache ID
// works as a strong ETag.
func staticFiles() http.Handler {
	sub, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("static assets: %w", err))
	}

	files := http.FileServerFS(sub)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", config.Global.Instance.FileServerCacheID)
		files.ServeHTTP(w, r)
	})
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func (router *Router) registerDebugRoutes() {
	if err := flightRecorder.Start(); err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
