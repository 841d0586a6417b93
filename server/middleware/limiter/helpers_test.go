// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ashiffxd/LLM-Internals/config"
)

// testConfigMutex serializes tests that mutate global package state.
var testConfigMutex sync.Mutex

// mockClock is a controllable current time for testing.
type mockClock struct {
	mu          sync.Mutex
	currentTime time.Time
}

// Now returns the current mock time.
func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentTime
}

// Advance moves the mock current time forward by d.
func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentTime = m.currentTime.Add(d)
}

// setupLimiterTest prepares a test environment with a mock clock and
// limiter settings for testing.
//
// The original time function and config are restored when the test completes.
//
// NOTE: Call once per test. It holds a global mutex for the whole test, so
// calling it again from a subtest would deadlock.
func setupLimiterTest(t *testing.T) *mockClock {
	t.Helper()

	testConfigMutex.Lock()

	origConfig := config.Global
	origTimeNow := timeNow

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.IPv4Prefix = 24
	config.Global.Limiter.IPv6Prefix = 64
	config.Global.Limiter.RequestsPerMinute = 60 // 1 token per second
	config.Global.Limiter.Burst = 10
	config.Global.Limiter.PassIPs = nil
	config.Global.Limiter.BlockIPs = nil
	config.Global.Limiter.FilterLocal = false
	config.Global.Limiter.CheckHeaders = true

	clock := &mockClock{currentTime: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
	timeNow = clock.Now

	origBuckets, origSweep := buckets, lastSweep
	buckets = &store{}
	lastSweep = time.Time{}

	t.Cleanup(func() {
		timeNow = origTimeNow
		buckets = origBuckets
		lastSweep = origSweep
		config.Global = origConfig

		testConfigMutex.Unlock()
	})

	return clock
}

// newBrowserRequest returns a request carrying the headers of a typical browser.
func newBrowserRequest(method, target, remoteAddr string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	return req
}
