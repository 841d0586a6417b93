// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// cronStopTimeout bounds how long Stop waits for a running reload.
const cronStopTimeout = 5 * time.Second

// Reloader periodically reloads a catalog from a filesystem into a Store.
//
// A reload that fails validation keeps the previous catalog.
type Reloader struct {
	store    *Store
	fsys     fs.FS
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger

	// OnReload is called after a new catalog has been stored.
	OnReload func(*Catalog)
}

func NewReloader(store *Store, fsys fs.FS, schedule string) *Reloader {
	return &Reloader{
		store:    store,
		fsys:     fsys,
		schedule: schedule,
		cron:     cron.New(),
		logger:   log.With().Str("sys", "catalog").Logger(),
	}
}

// Reload loads the catalog once and stores it on success.
func (r *Reloader) Reload() error {
	start := time.Now()

	c, err := Load(r.fsys)
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}

	r.store.Set(c)

	if r.OnReload != nil {
		r.OnReload(c)
	}

	r.logger.Info().
		Int("articles", c.Len()).
		Dur("took", time.Since(start)).
		Msg("Catalog reloaded")

	return nil
}

// Start schedules Reload according to the cron schedule.
func (r *Reloader) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.Reload(); err != nil {
			r.logger.Err(err).Msg("Scheduled catalog reload failed, keeping previous catalog")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", r.schedule, err)
	}

	r.logger.Info().Str("schedule", r.schedule).Msg("Starting catalog reload scheduler")
	r.cron.Start()

	return nil
}

// Stop stops the scheduler and waits for a running reload, up to a timeout.
func (r *Reloader) Stop() {
	stopCtx := r.cron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cronStopTimeout)
	defer cancel()

	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		r.logger.Warn().Msg("Timed out waiting for catalog reload to finish")
	}
}
