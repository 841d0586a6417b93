// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"runtime/trace"

	servertiming "github.com/mitchellh/go-server-timing"
)

// Stage times one step of building a page, such as parsing an article or
// rendering its diagrams. The returned func ends the stage.
//
// The step shows up as a trace region and, when the request carries a
// Server-Timing header, as a metric named after the step.
func Stage(ctx context.Context, name, desc string) func() {
	region := trace.StartRegion(ctx, name)

	var metric *servertiming.Metric
	if h := servertiming.FromContext(ctx); h != nil {
		metric = h.NewMetric(name).WithDesc(desc).Start()
	}

	return func() {
		region.End()

		if metric != nil {
			metric.Stop()
		}
	}
}
