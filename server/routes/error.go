// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/assets/views"
	"github.com/ashiffxd/LLM-Internals/server/request_context"
)

var errPageNotFound = errors.New("page not found")

// NotFoundPage answers paths that no other route matches.
func NotFoundPage(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return errPageNotFound
}

// ErrorPage renders an error page. The caller writes the status line.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	title := "Error"
	if rc.StatusCode == http.StatusNotFound {
		title = "Not found"
	}

	pageData := views.ErrorData{
		Title:      title,
		Error:      rc.RequestError,
		StatusCode: rc.StatusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render error page")
	}
}
