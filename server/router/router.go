// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"sync"

	"github.com/ashiffxd/LLM-Internals/server/middleware"
)

// Router is an http.ServeMux with a middleware chain in front of it.
//
// Routes and middleware are registered before the first request; the chain
// is assembled once, on the first call to ServeHTTP.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware

	once    sync.Once
	handler http.Handler
}

// NewRouter returns a Router with no routes and no middleware.
func NewRouter() *Router {
	return &Router{ServeMux: http.NewServeMux()}
}

// Use appends m to the chain. The first middleware added runs first.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// Page registers a page handler. Its errors and 404s are turned into the
// themed error page by middleware.CatchError.
func (router *Router) Page(pattern string, page func(w http.ResponseWriter, r *http.Request) error) {
	router.HandleFunc(pattern, middleware.CatchError(page))
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.once.Do(func() {
		var h http.Handler = router.ServeMux
		for i := len(router.middlewares) - 1; i >= 0; i-- {
			h = middleware.Wrap(router.middlewares[i], h)
		}

		router.handler = h
	})

	router.handler.ServeHTTP(w, r)
}
