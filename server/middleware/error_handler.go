// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
	"github.com/ashiffxd/LLM-Internals/server/request_context"
	"github.com/ashiffxd/LLM-Internals/server/routes"
)

// CatchError adapts a page handler that returns an error into an
// http.HandlerFunc.
//
// The handler writes into a buffer. Its response is replaced by the themed
// error page when:
//   - it returned an error but no error status (shown as 500),
//   - it answered 404, or
//   - it returned an error with an error status and wrote no body.
//
// Otherwise the buffered response goes out unchanged. Either way the request
// is logged as an audit span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := request_context.FromRequest(r)

		span := audit.Span{
			Direction: audit.Inbound,
			RequestID: rc.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
		}
		span.Begin(r.Context())

		rec := httptest.NewRecorder()
		rc.RequestError = handler(rec, r)

		if status, replace := errorStatus(rc.RequestError, rec); replace {
			rc.StatusCode = status

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(status)
			routes.ErrorPage(w, r)
		} else {
			rc.StatusCode = rec.Code

			maps.Copy(w.Header(), rec.Header())
			w.WriteHeader(rec.Code)

			if _, err := rec.Body.WriteTo(w); err != nil {
				log.Err(err).Str("request_id", rc.RequestID).Msg("Failed to write response body")
			}
		}

		span.End()
		span.StatusCode = rc.StatusCode
		span.Error = rc.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// errorStatus decides whether the buffered response in rec is replaced by
// the error page, and with which status.
func errorStatus(err error, rec *httptest.ResponseRecorder) (int, bool) {
	switch {
	case err != nil && rec.Code < http.StatusBadRequest:
		return http.StatusInternalServerError, true
	case rec.Code == http.StatusNotFound:
		return http.StatusNotFound, true
	case err != nil && rec.Body.Len() == 0:
		return rec.Code, true
	default:
		return rec.Code, false
	}
}
