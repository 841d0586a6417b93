// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	sweepMu   sync.Mutex
	lastSweep time.Time
)

// DoCleanup sweeps idle buckets in the background, at most once per
// CleanupInterval. The first call only starts the clock.
func DoCleanup() {
	now := timeNow()

	sweepMu.Lock()
	due := !lastSweep.IsZero() && now.Sub(lastSweep) >= CleanupInterval

	if lastSweep.IsZero() || due {
		lastSweep = now
	}
	sweepMu.Unlock()

	if !due {
		return
	}

	s := buckets

	go func() {
		if removed := s.sweep(now); removed > 0 {
			log.Debug().Int("removed", removed).Msg("Swept idle rate limit buckets")
		}
	}()
}
