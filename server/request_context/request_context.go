// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context holds the state a single page request carries from the
middleware chain to the handler and back to middleware.CatchError.

It sits below both server/middleware and server/routes so that neither has to
import the other.
*/
package request_context

import (
	"context"
	"net/http"

	"github.com/ashiffxd/LLM-Internals/core/idgen"
	"github.com/ashiffxd/LLM-Internals/i18n"
	"github.com/ashiffxd/LLM-Internals/server/template/commondata"
)

// RequestContext is created once per request by WithRequestContext.
// Handlers read CommonData; CatchError fills in the outcome.
type RequestContext struct {
	// RequestID ties together the log lines of one request and the renderer
	// calls it made.
	RequestID string

	// RequestError is the error returned by the page handler, if any.
	RequestError error

	// StatusCode is the status sent to the reader, 200 until CatchError
	// decides otherwise.
	StatusCode int

	// CommonData is what every view needs: theme, sidebar state, language
	// and the URL of the page.
	CommonData commondata.PageCommonData
}

type contextKey struct{}

// WithRequestContext resolves the reader's language and preferences for r and
// returns ctx carrying a fresh RequestContext.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	ctx = i18n.WithRequest(ctx, r)

	rc := &RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
	}
	commondata.PopulatePageCommonData(r, &rc.CommonData)

	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the RequestContext stored in ctx. Outside the
// middleware chain, as in unit tests of single handlers, it returns a
// fresh zero value so callers never see nil.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{}
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
