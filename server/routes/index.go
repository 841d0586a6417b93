// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/ashiffxd/LLM-Internals/assets/views"
)

// IndexPage is the handler for the home page.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	c, err := currentCatalog()
	if err != nil {
		return err
	}

	data := views.LandingData{Modules: c.Roadmap()}

	if first, ok := c.FirstTopic(); ok {
		link := first.Link()
		data.FirstTopic = &link
	}

	setPreferenceDependentCaching(w)

	return views.Landing(data).Render(r.Context(), w)
}
