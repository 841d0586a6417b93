// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiffxd/LLM-Internals/core/requests/lrucache"
)

// withCache installs a fresh response cache for the duration of a test.
func withCache(t *testing.T) {
	t.Helper()

	c, err := lrucache.NewLRUCache(16, true)
	require.NoError(t, err)

	prevCache := cache
	cache = newResponseCache(c, time.Hour)

	t.Cleanup(func() { cache = prevCache })
}

// echoServer answers every request with the request body and counts hits.
func echoServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		body, _ := io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte("<svg>" + string(body) + "</svg>"))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestPostCachesByPayload(t *testing.T) {
	withCache(t)

	srv, hits := echoServer(t)
	ctx := context.Background()

	first, err := Post(ctx, srv.URL+"/mermaid/svg", []byte("graph TD; A-->B"), "text/plain", "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, "<svg>graph TD; A-->B</svg>", string(first))

	second, err := Post(ctx, srv.URL+"/mermaid/svg", []byte("graph TD; A-->B"), "text/plain", "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load(), "identical payload should be served from cache")

	_, err = Post(ctx, srv.URL+"/mermaid/svg", []byte("graph TD; B-->C"), "text/plain", "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "different payload must reach the server")
}

func TestDoSkipsCacheForUncacheablePost(t *testing.T) {
	withCache(t)

	srv, hits := echoServer(t)

	for range 2 {
		_, _, err := Do(context.Background(), RequestOptions{
			Method:  http.MethodPost,
			URL:     srv.URL,
			Payload: []byte("x"),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestGetHonoursNoCache(t *testing.T) {
	withCache(t)

	srv, hits := echoServer(t)
	headers := http.Header{"Cache-Control": {"no-cache"}}

	for range 2 {
		_, err := Get(context.Background(), srv.URL, headers)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestInvalidateURLs(t *testing.T) {
	withCache(t)

	srv, hits := echoServer(t)
	ctx := context.Background()

	_, err := Get(ctx, srv.URL+"/a", nil)
	require.NoError(t, err)
	_, err = Get(ctx, srv.URL+"/b", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, InvalidateURLs([]string{srv.URL + "/a"}))
	assert.Equal(t, 1, CacheStats().Len)

	_, err = Get(ctx, srv.URL+"/a", nil)
	require.NoError(t, err)
	_, err = Get(ctx, srv.URL+"/b", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(3), hits.Load())

	Purge()
	assert.Equal(t, 0, CacheStats().Len)
}

func TestDoReturnsAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Syntax error in graph"}}`))
	}))
	defer srv.Close()

	_, err := Post(context.Background(), srv.URL, []byte("graph"), "text/plain", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Syntax error in graph", apiErr.Message)
	assert.ErrorIs(t, err, errAPIResponseError)
	assert.Contains(t, err.Error(), "(status code: 400)")
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"json message", 400, "application/json", `{"message":"bad"}`, "bad"},
		{"json error string", 400, "application/json", `{"error":"worse"}`, "worse"},
		{"plain text", 400, "text/plain; charset=utf-8", "  Error 400: cannot parse  ", "Error 400: cannot parse"},
		{"truncated", 400, "text/plain", strings.Repeat("x", 300), strings.Repeat("x", maxErrorMessageLength) + "…"},
		{"status fallback", 503, "text/html", "<html></html>", "Service Unavailable"},
		{"unknown status", 599, "", "", "An unknown upstream error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &http.Response{StatusCode: tt.status, Header: http.Header{}}
			if tt.contentType != "" {
				resp.Header.Set("Content-Type", tt.contentType)
			}

			assert.Equal(t, tt.want, errorMessage(resp, []byte(tt.body)))
		})
	}
}

func TestIsContextCanceled(t *testing.T) {
	t.Parallel()

	assert.True(t, IsContextCanceled(context.Canceled))
	assert.True(t, IsContextCanceled(errors.Join(errors.New("x"), context.DeadlineExceeded)))
	assert.False(t, IsContextCanceled(errAPIResponseError))
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	get := RequestOptions{Method: http.MethodGet, URL: "https://kroki.io/mermaid/svg/x"}

	key, read, write := cacheKey(get)
	assert.NotEmpty(t, key)
	assert.True(t, read)
	assert.True(t, write)

	noStore := get
	noStore.IncomingHeaders = http.Header{"Cache-Control": {"no-store"}}
	key2, read, write := cacheKey(noStore)
	assert.Equal(t, key, key2)
	assert.True(t, read)
	assert.False(t, write)

	_, read, _ = cacheKey(RequestOptions{Method: http.MethodPost, URL: get.URL})
	assert.False(t, read, "POST is cached only when marked cacheable")

	post := RequestOptions{Method: http.MethodPost, URL: get.URL, Payload: []byte("a"), Cacheable: true}
	postKey, _, _ := cacheKey(post)
	post.Payload = []byte("b")
	otherKey, _, _ := cacheKey(post)
	assert.NotEqual(t, postKey, otherKey)
}
