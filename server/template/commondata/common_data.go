// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/theme"
	"github.com/ashiffxd/LLM-Internals/core/untrusted"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is automatically populated for each request and attached to the
// requestcontext.RequestContext.
//
// Usage:
//
//	// In an HTTP handler:
//	rc := requestcontext.FromRequest(r)
//	cd := rc.CommonData
//	// Now you can access fields like cd.BaseURL, cd.Theme, etc.
type PageCommonData struct {
	// BaseURL is the origin URL (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path from request (e.g., "/docs/2/self-attention").
	CurrentPath string

	// CurrentPathWithParams is the full request URI including query parameters.
	CurrentPathWithParams string

	// FullURL is the complete URL (scheme + host + path) of the request, not
	// including query parameters. Pages use it as their canonical URL.
	FullURL string

	// Theme is the colour scheme chosen by the client.
	Theme theme.Theme

	// ExpandedModules are the sidebar modules the client has open.
	ExpandedModules []int

	// SiteName and RepoURL come from the instance configuration.
	SiteName string
	RepoURL  string
}

// IsExpanded reports whether the sidebar section for module is open.
func (data PageCommonData) IsExpanded(module int) bool {
	for _, m := range data.ExpandedModules {
		if m == module {
			return true
		}
	}

	return false
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.BaseURL = utils.RequestOrigin(r)
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()
	data.FullURL = data.BaseURL + r.URL.Path

	data.Theme = untrusted.GetTheme(r)
	data.ExpandedModules = untrusted.GetExpandedModules(r)

	data.SiteName = config.Global.Instance.SiteName
	data.RepoURL = config.Global.Instance.RepoURL
}
