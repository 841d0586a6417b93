// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1.00K"},
		{1536, "1.50K"},
		{1 << 20, "1.00M"},
		{2 << 30, "2.00G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeSize(tt.in))
	}
}

func TestTimingName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		span Span
		want string
	}{
		{"reader", Span{Direction: Inbound, URL: "/docs/0/introduction"}, "reader"},
		{"kroki", Span{Direction: Outbound, URL: "https://kroki.io/mermaid/svg"}, "renderer-kroki.io"},
		{"kroki with port", Span{Direction: Outbound, URL: "http://localhost:8000/mermaid/svg"}, "renderer-localhost"},
		{"unparsable", Span{Direction: Outbound, URL: "://"}, "renderer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.span.TimingName())
		})
	}
}

func TestSpanRecordsMetric(t *testing.T) {
	t.Parallel()

	var timing servertiming.Header

	ctx := servertiming.NewContext(context.Background(), &timing)

	span := Span{Direction: Outbound, Method: "POST", URL: "https://kroki.io/mermaid/svg"}
	span.Begin(ctx)
	span.End()
	span.End()

	require.Len(t, timing.Metrics, 1)
	assert.Equal(t, "renderer-kroki.io", timing.Metrics[0].Name)
	assert.Equal(t, "POST https://kroki.io/mermaid/svg", timing.Metrics[0].Desc)
	assert.Positive(t, timing.Metrics[0].Duration)
	assert.Contains(t, timing.Metrics[0].Extra, "start")
}

func TestSpanWithoutServerTiming(t *testing.T) {
	t.Parallel()

	span := Span{Direction: Inbound, Method: "GET", URL: "/"}
	span.Begin(context.Background())
	span.End()

	assert.Nil(t, span.metric)
	assert.Positive(t, span.elapsed)
}

func TestStage(t *testing.T) {
	t.Parallel()

	var timing servertiming.Header

	ctx := servertiming.NewContext(context.Background(), &timing)

	end := Stage(ctx, "parse", "Parse article")
	end()

	require.Len(t, timing.Metrics, 1)
	assert.Equal(t, "parse", timing.Metrics[0].Name)
	assert.Equal(t, "Parse article", timing.Metrics[0].Desc)

	// Without a header the stage is still safe to end.
	Stage(context.Background(), "parse", "Parse article")()
}
