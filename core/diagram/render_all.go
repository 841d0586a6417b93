// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package diagram

import (
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ashiffxd/LLM-Internals/core/markdown"
	"github.com/ashiffxd/LLM-Internals/core/theme"
)

// DefaultConcurrency bounds RenderAll when limit is not positive.
const DefaultConcurrency = 4

// RenderAll renders every DiagramBlock in blocks with at most limit renders in flight.
//
// The result maps block indexes to markup. Indexes of failed diagrams are
// absent, so their slot stays empty when the page is drawn.
func RenderAll(ctx context.Context, renderer Renderer, blocks []markdown.Block, t theme.Theme, limit int) map[int]template.HTML {
	indexes := markdown.Diagrams(blocks)
	results := make(map[int]template.HTML, len(indexes))

	if len(indexes) == 0 {
		return results
	}

	if limit <= 0 {
		limit = DefaultConcurrency
	}

	logger := log.With().Str("sys", "diagram").Logger()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	g.SetLimit(limit)

	for _, i := range indexes {
		source := blocks[i].(markdown.DiagramBlock).Source

		g.Go(func() error {
			markup, err := renderer.Render(ctx, source, t)
			if err != nil {
				logger.Warn().
					Err(err).
					Int("block", i).
					Str("theme", t.String()).
					Msg("Diagram failed to render")

				return nil
			}

			mu.Lock()
			results[i] = markup
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return results
}
