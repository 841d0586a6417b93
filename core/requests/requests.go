// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
	"github.com/ashiffxd/LLM-Internals/core/idgen"
	"github.com/ashiffxd/LLM-Internals/server/request_context"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// maxErrorMessageLength caps plain-text error bodies copied into an APIError.
const maxErrorMessageLength = 200

var errAPIResponseError = errors.New("upstream response indicated error")

// APIError represents an error status returned by an upstream service.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	// Always >= 400.
	StatusCode int

	// Message contains the error message extracted from the response, if any.
	Message string

	// Err is the underlying error cause.
	Err error
}

// Error returns a formatted error message including the status code and message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Get performs a GET request and returns the response body.
//
// Responses with a status of 400 or above are returned as *APIError.
func Get(ctx context.Context, url string, incomingHeaders http.Header) ([]byte, error) {
	return do(ctx, RequestOptions{
		Method:          http.MethodGet,
		URL:             url,
		IncomingHeaders: incomingHeaders,
	})
}

// Post performs an idempotent, cacheable POST request and returns the response body.
//
// Responses with a status of 400 or above are returned as *APIError.
func Post(ctx context.Context, url string, payload []byte, contentType, accept string) ([]byte, error) {
	return do(ctx, RequestOptions{
		Method:      http.MethodPost,
		URL:         url,
		Payload:     payload,
		ContentType: contentType,
		Accept:      accept,
		Cacheable:   true,
	})
}

// Do sends an HTTP request and returns the response along with its body.
//
// Cached responses are served without contacting the upstream service. The
// returned response's Body is already drained; use the returned bytes.
// Error statuses are left to the caller.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	key, read, write := cacheKey(opts)

	if cache != nil && read {
		if stored, ok := cache.lookup(key); ok {
			return stored.response(), stored.Body, nil
		}
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	resp, body, err := sendRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if cache != nil && write && resp.StatusCode == http.StatusOK {
		if err := cache.store(key, opts.URL, resp, body); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Failed to cache upstream response")
		}
	}

	return resp, body, nil
}

// do performs a request and converts error statuses into *APIError.
func do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp, body),
			Err:        errAPIResponseError,
		}
	}

	return body, nil
}

// errorMessage extracts a human readable message from an error response.
//
// JSON bodies are searched for "message" or "error"; short plain text bodies
// are used directly. The HTTP status text is the fallback.
func errorMessage(resp *http.Response, body []byte) string {
	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)
		for _, path := range []string{"message", "error.message", "error"} {
			if msg := result.Get(path); msg.Type == gjson.String && msg.Str != "" {
				return msg.Str
			}
		}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		if msg := strings.TrimSpace(string(body)); msg != "" {
			if len(msg) > maxErrorMessageLength {
				msg = msg[:maxErrorMessageLength] + "…"
			}

			return msg
		}
	}

	if msg := http.StatusText(resp.StatusCode); msg != "" {
		return msg
	}

	return "An unknown upstream error occurred"
}

// newRequest constructs an *http.Request from RequestOptions.
func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var reqBody io.Reader
	if opts.Method == http.MethodPost {
		reqBody = bytes.NewReader(opts.Payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", config.UserAgent())

	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	if opts.Method == http.MethodPost && opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}

	return req, nil
}

// sendRequest executes req and reads the whole body, which the span keeps for
// the audit log. The returned response's Body is closed.
func sendRequest(ctx context.Context, req *http.Request) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Direction: audit.Outbound,
		RequestID: request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:    req.Method,
		URL:       req.URL.String(),
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	span.End()
	span.Log()

	return resp, body, nil
}

// IsContextCanceled returns true if the error is due to context cancellation or deadline exceeded.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
