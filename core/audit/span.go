// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Direction tells which side of the site an HTTP exchange happened on.
type Direction string

const (
	// Inbound is a reader's request to the site.
	Inbound Direction = "reader"
	// Outbound is a request the site makes to a diagram renderer.
	Outbound Direction = "renderer"

	savedBodyPermissions = 0o600
)

var (
	// SaveResponses keeps outbound response bodies on disk for inspection.
	SaveResponses bool

	// ResponseDirectory is where saved bodies go, one file per request ID.
	ResponseDirectory string
)

// Span records one HTTP exchange. Fields below the marker are filled in by the
// caller; the rest are managed by Begin and End.
type Span struct {
	task    *trace.Task
	metric  *servertiming.Metric
	started time.Time
	elapsed time.Duration
	saved   string

	Direction  Direction
	RequestID  string
	Method     string
	URL        string
	StatusCode int
	Error      error
	Body       []byte
}

// TimingName is the Server-Timing metric name for the span, e.g.
// "renderer-kroki.io" for a diagram request or "reader" for a page.
func (s Span) TimingName() string {
	if s.Direction != Outbound {
		return string(s.Direction)
	}

	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return string(s.Direction)
	}

	return string(s.Direction) + "-" + u.Hostname()
}

// Begin starts the clock and opens a trace task. When the request carries a
// Server-Timing header, the span is also exported there.
func (s *Span) Begin(ctx context.Context) context.Context {
	s.started = time.Now()

	ctx, s.task = trace.NewTask(ctx, "http."+string(s.Direction))

	if h := servertiming.FromContext(ctx); h != nil {
		s.metric = h.NewMetric(s.TimingName()).WithDesc(s.Method + " " + s.URL)
		s.metric.Extra = map[string]string{
			"start": strconv.FormatInt(s.started.UnixMilli(), 10),
		}
	}

	return ctx
}

// End stops the clock. Only the first call has an effect.
func (s *Span) End() {
	if s.task == nil {
		return
	}

	s.elapsed = time.Since(s.started)
	s.task.End()
	s.task = nil

	if s.metric != nil {
		s.metric.Duration = s.elapsed
	}
}

// Log writes the span at debug level, saving an outbound body first when
// SaveResponses is set.
func (s Span) Log() {
	if s.Direction == Outbound && SaveResponses && len(s.Body) > 0 {
		s.saved = s.saveBody()
	}

	event := log.Debug().
		Str("sys", "http").
		Str("destination", string(s.Direction)).
		Str("request_id", s.RequestID).
		Str("method", s.Method).
		Str("url", s.URL).
		Int("status_code", s.StatusCode).
		Str("len", humanizeSize(len(s.Body))).
		Dur("dur", s.elapsed)

	if s.saved != "" {
		event = event.Str("saved_body", s.saved)
	}

	event.Err(s.Error).Send()
}

func (s Span) saveBody() string {
	name := filepath.Join(ResponseDirectory, s.RequestID)

	if err := os.WriteFile(name, s.Body, savedBodyPermissions); err != nil {
		log.Warn().Err(err).Str("request_id", s.RequestID).Msg("Could not save renderer response")

		return ""
	}

	return name
}

func humanizeSize(n int) string {
	const unit = 1024

	if n < unit {
		return strconv.Itoa(n)
	}

	size := float64(n)
	for _, suffix := range []string{"K", "M", "G"} {
		size /= unit
		if size < unit || suffix == "G" {
			return fmt.Sprintf("%.2f%s", size, suffix)
		}
	}

	return strconv.Itoa(n)
}
