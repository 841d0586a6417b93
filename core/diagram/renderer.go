// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package diagram

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/time/rate"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/requests"
	"github.com/ashiffxd/LLM-Internals/core/theme"
)

var ErrEmptySource = errors.New("diagram source is empty")

// Renderer turns diagram source into markup for the given theme.
type Renderer interface {
	Render(ctx context.Context, source string, t theme.Theme) (template.HTML, error)
}

// ClientRenderer defers drawing to the mermaid script in the browser.
type ClientRenderer struct{}

// Render wraps the escaped source in the element the mermaid script looks for.
func (ClientRenderer) Render(_ context.Context, source string, _ theme.Theme) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}

	//nolint:gosec // source is escaped
	return template.HTML(`<pre class="mermaid">` + templ.EscapeString(source) + `</pre>`), nil
}

// KrokiRenderer renders diagrams to SVG on a Kroki server.
type KrokiRenderer struct {
	endpoint string
	limiter  *rate.Limiter
	timeout  time.Duration
}

// NewKrokiRenderer returns a renderer posting to {base}/mermaid/svg.
//
// Outgoing requests are limited to requestsPerSec with the given burst.
func NewKrokiRenderer(base url.URL, requestsPerSec, burst int, timeout time.Duration) *KrokiRenderer {
	return &KrokiRenderer{
		endpoint: strings.TrimSuffix(base.String(), "/") + "/mermaid/svg",
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSec), burst),
		timeout:  timeout,
	}
}

// Render posts the themed source to Kroki and returns the sanitized SVG.
func (k *KrokiRenderer) Render(ctx context.Context, source string, t theme.Theme) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}

	if k.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	if err := k.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for kroki rate limiter: %w", err)
	}

	payload := initDirective(t) + "\n" + source

	body, err := requests.Post(ctx, k.endpoint, []byte(payload), "text/plain", "image/svg+xml")
	if err != nil {
		return "", fmt.Errorf("kroki request failed: %w", err)
	}

	svg, err := SanitizeSVG(body)
	if err != nil {
		return "", err
	}

	//nolint:gosec // sanitized above
	return template.HTML(svg), nil
}

// NewFromConfig builds the renderer selected in config.Global.
func NewFromConfig() Renderer {
	cfg := config.Global.Diagram

	if cfg.Renderer == config.KrokiRenderer {
		return NewKrokiRenderer(cfg.KrokiURL, cfg.RequestsPerSec, cfg.Burst, cfg.Timeout)
	}

	return ClientRenderer{}
}
