// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// DurationAsString makes go-yaml write durations as "30m" rather than
// nanosecond counts, so printed and generated files read like hand-written ones.
func DurationAsString() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](func(d time.Duration) ([]byte, error) {
		return yaml.Marshal(d.String())
	})
}

// print logs the startup banner and writes the effective configuration to
// stderr, with credentials removed from URLs.
func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Msg("Starting " + cfg.Instance.SiteName)

	shown := *cfg
	shown.Diagram.RawKrokiURL = redactURL(shown.Diagram.RawKrokiURL)
	shown.Instance.RepoURL = redactURL(shown.Instance.RepoURL)

	out, err := yaml.MarshalWithOptions(shown, DurationAsString())
	if err != nil {
		log.Warn().Err(err).Msg("Could not print configuration")

		return
	}

	fmt.Fprintf(os.Stderr, "Effective configuration:\n%s\n", out)
}

// redactURL replaces the user info of a URL, which may hold a password.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}

	u.User = url.User("[redacted]")

	return u.String()
}
