// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ashiffxd/LLM-Internals/config"
)

// Tuning of the token buckets. The gap between RestrictThreshold and
// RelaxThreshold keeps a network from flapping between tiers.
const (
	SuspiciousRateFactor  = 0.05 // share of the configured rate left to a suspicious network
	SuspiciousBurstFactor = 0.5  // share of the configured burst left to a suspicious network
	ClipboardRateFactor   = 0.25 // share of the configured rate for /raw, /prompt and /ask

	BucketTTL       = time.Hour       // idle buckets older than this are swept
	CleanupInterval = 5 * time.Minute // minimum time between sweeps

	VerdictWindow     = 60  // recent client verdicts remembered per network
	RestrictThreshold = 0.6 // suspicious share at which a network is restricted
	RelaxThreshold    = 0.2 // suspicious share at which a restriction is lifted
)

const msgRateLimited = "Rate limit exceeded"

// timeNow is replaced in tests.
var timeNow = time.Now

// tier selects the size of a bucket.
type tier int

const (
	tierRegular tier = iota
	tierSuspicious
	tierClipboard
)

func (t tier) String() string {
	switch t {
	case tierSuspicious:
		return "Suspicious"
	case tierClipboard:
		return "Clipboard"
	default:
		return "Normal"
	}
}

// limits derives the refill rate and burst of t from the configuration.
func (t tier) limits() (rate.Limit, int) {
	perSecond := rate.Limit(float64(config.Global.Limiter.RequestsPerMinute) / 60)
	burst := config.Global.Limiter.Burst

	switch t {
	case tierSuspicious:
		return perSecond * SuspiciousRateFactor, max(1, int(float64(burst)*SuspiciousBurstFactor))
	case tierClipboard:
		return perSecond * ClipboardRateFactor, burst
	default:
		return perSecond, burst
	}
}

// verdictWindow is a ring of the latest header verdicts for a network.
type verdictWindow struct {
	ring    [VerdictWindow]bool
	next    int
	filled  int
	flagged int
}

func (w *verdictWindow) add(suspicious bool) {
	if w.filled == VerdictWindow {
		if w.ring[w.next] {
			w.flagged--
		}
	} else {
		w.filled++
	}

	w.ring[w.next] = suspicious
	if suspicious {
		w.flagged++
	}

	w.next = (w.next + 1) % VerdictWindow
}

// decision reports whether the window calls for lifting or imposing a
// restriction. Nothing changes until the window is full.
func (w *verdictWindow) decision() (relax, restrict bool) {
	if w.filled < VerdictWindow {
		return false, false
	}

	share := float64(w.flagged) / float64(w.filled)

	return share <= RelaxThreshold, share >= RestrictThreshold
}

// bucket is the token bucket of one network, or of its clipboard traffic.
type bucket struct {
	mu       sync.Mutex
	key      string
	tier     tier
	tokens   *rate.Limiter
	lastSeen time.Time
	verdicts verdictWindow
}

func newBucket(key string, t tier) *bucket {
	now := timeNow()
	r, burst := t.limits()

	tokens := rate.NewLimiter(r, burst)
	// Start full at the (possibly mocked) current time.
	tokens.SetBurstAt(now, burst)

	return &bucket{key: key, tier: t, tokens: tokens, lastSeen: now}
}

// take consumes one token. It returns "" on success and the reason
// otherwise.
func (b *bucket) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := timeNow()
	b.lastSeen = now

	if b.tokens.AllowN(now, 1) {
		return ""
	}

	return msgRateLimited
}

// observe records one client verdict and moves the bucket between the
// regular and suspicious tiers when the window says so. It returns the
// bucket's tier afterwards.
func (b *bucket) observe(suspicious bool) tier {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.verdicts.add(suspicious)

	relax, restrict := b.verdicts.decision()

	switch {
	case relax && b.tier == tierSuspicious:
		b.retier(tierRegular)
		log.Info().Str("network", b.key).Msg("Lifted rate limit restriction for network")
	case restrict && b.tier == tierRegular:
		b.retier(tierSuspicious)
		log.Warn().Str("network", b.key).Msg("Restricted rate limit for network")
	}

	return b.tier
}

// retier changes the bucket's limits. Callers hold b.mu.
func (b *bucket) retier(t tier) {
	now := timeNow()
	r, burst := t.limits()

	b.tokens.SetLimitAt(now, r)
	b.tokens.SetBurstAt(now, burst)
	b.tier = t
}

// status describes the bucket for the RateLimit headers: its size, the
// whole tokens left and the seconds until it is full again.
func (b *bucket) status() (burst, remaining int, reset int64, t tier) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := timeNow()
	available := b.tokens.TokensAt(now)
	burst = b.tokens.Burst()
	limit := b.tokens.Limit()

	remaining = max(0, min(burst, int(available)))

	if available < float64(burst) && limit > 0 {
		reset = int64(math.Ceil((float64(burst) - available) / float64(limit)))
	}

	return burst, remaining, reset, b.tier
}

// store holds the buckets of all networks seen recently.
type store struct {
	m sync.Map // key -> *bucket
}

// buckets is the store used by Evaluate.
var buckets = &store{}

// get returns the bucket under key, creating it in tier t when missing.
// An existing bucket keeps its own tier.
func (s *store) get(key string, t tier) *bucket {
	if v, ok := s.m.Load(key); ok {
		b, _ := v.(*bucket)

		return b
	}

	v, _ := s.m.LoadOrStore(key, newBucket(key, t))
	b, _ := v.(*bucket)

	return b
}

// network returns the page bucket of a network.
func (s *store) network(network string, suspicious bool) *bucket {
	if suspicious {
		return s.get(network, tierSuspicious)
	}

	return s.get(network, tierRegular)
}

// clipboard returns the bucket for the clipboard and assistant routes of a
// network, kept apart so copying does not eat into reading.
func (s *store) clipboard(network string) *bucket {
	return s.get(network+":clipboard", tierClipboard)
}

// sweep drops buckets idle for longer than BucketTTL and returns how many
// were removed.
func (s *store) sweep(now time.Time) int {
	removed := 0

	s.m.Range(func(key, v any) bool {
		b, ok := v.(*bucket)
		if ok {
			b.mu.Lock()
			ok = now.Sub(b.lastSeen) <= BucketTTL
			b.mu.Unlock()
		}

		if !ok {
			s.m.Delete(key)

			removed++
		}

		return true
	})

	return removed
}
