// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ashiffxd/LLM-Internals/assets/components/partials"
	"github.com/ashiffxd/LLM-Internals/i18n"
)

// ErrorData is the data used to render the error page.
type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

// Error renders the themed error page.
//
// Internal error details are only shown for server errors, where they help
// the operator; a 404 shows a friendly message instead.
func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := partials.NewWriter(w)

		hw.Raw(`<section class="error-page">`, `<p class="status-code">`, strconv.Itoa(data.StatusCode), "</p>\n<h1>")

		if data.StatusCode == http.StatusNotFound {
			hw.Text(i18n.Tr(ctx, "Page not found"))
			hw.Raw("</h1>\n<p>")
			hw.Text(i18n.Tr(ctx, "The topic you are looking for does not exist or has moved."))
			hw.Raw("</p>\n")
		} else {
			hw.Text(http.StatusText(data.StatusCode))
			hw.Raw("</h1>\n")

			if data.Error != nil {
				hw.Raw(`<pre class="error-detail">`)
				hw.Text(data.Error.Error())
				hw.Raw("</pre>\n")
			}
		}

		hw.Raw(`<a class="button" href="/docs">`)
		hw.Text(i18n.Tr(ctx, "Back to the documentation"))
		hw.Raw("</a>\n</section>\n")

		return hw.Err()
	})

	return Layout(LayoutData{Title: data.Title}, body)
}
