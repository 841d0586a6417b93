// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiffxd/LLM-Internals/core/theme"
	"github.com/ashiffxd/LLM-Internals/server/middleware"
	"github.com/ashiffxd/LLM-Internals/server/request_context"
)

// capture runs req through the middleware and returns the context seen by the next handler.
func capture(t *testing.T, req *http.Request) *request_context.RequestContext {
	t.Helper()

	var rc *request_context.RequestContext

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc = request_context.FromRequest(r)

		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, rc, "next handler was not called")

	return rc
}

func TestWithRequestContext_Defaults(t *testing.T) {
	t.Parallel()

	rc := capture(t, httptest.NewRequest(http.MethodGet, "/docs/0/introduction?lang=en", nil))

	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	require.NoError(t, rc.RequestError)

	cd := rc.CommonData
	assert.Equal(t, "/docs/0/introduction", cd.CurrentPath)
	assert.Equal(t, "/docs/0/introduction?lang=en", cd.CurrentPathWithParams)
	assert.Equal(t, "http://example.com/docs/0/introduction", cd.FullURL)
	assert.Equal(t, theme.Light, cd.Theme)
	assert.Equal(t, []int{0}, cd.ExpandedModules)
	assert.True(t, cd.IsExpanded(0))
}

func TestWithRequestContext_ReadsPreferenceCookies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cookies      []*http.Cookie
		wantTheme    theme.Theme
		wantExpanded []int
	}{
		{
			name:         "dark theme with two open modules",
			cookies:      []*http.Cookie{{Name: "Theme", Value: "dark"}, {Name: "SidebarExpanded", Value: "2%2C0"}},
			wantTheme:    theme.Dark,
			wantExpanded: []int{0, 2},
		},
		{
			name:         "all modules collapsed",
			cookies:      []*http.Cookie{{Name: "SidebarExpanded", Value: ""}},
			wantTheme:    theme.Light,
			wantExpanded: []int{},
		},
		{
			name:         "garbage is ignored",
			cookies:      []*http.Cookie{{Name: "Theme", Value: "neon"}, {Name: "SidebarExpanded", Value: "x%2C-1%2C3"}},
			wantTheme:    theme.Light,
			wantExpanded: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/docs", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}

			cd := capture(t, req).CommonData

			assert.Equal(t, tt.wantTheme, cd.Theme)
			assert.Equal(t, tt.wantExpanded, cd.ExpandedModules)
		})
	}
}

func TestWithRequestContext_UniqueRequestIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 3 {
		id := capture(t, httptest.NewRequest(http.MethodGet, "/", nil)).RequestID
		assert.False(t, seen[id], "duplicate request ID %s", id)

		seen[id] = true
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	t.Parallel()

	rc := request_context.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rc.RequestID)
	assert.Empty(t, rc.CommonData.CurrentPath)
}
