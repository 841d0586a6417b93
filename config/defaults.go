// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

// SetDefaults resets cfg and fills in the values used when neither the
// configuration file nor the environment says otherwise.
func (cfg *ServerConfig) SetDefaults() {
	*cfg = ServerConfig{}

	cfg.Basic.Host, cfg.Basic.Port = "localhost", "8282"

	// Content is embedded unless a directory is configured.
	cfg.Content.ReloadSchedule = "@every 5m"

	d := &cfg.Diagram
	d.Renderer = ClientRenderer
	d.RawKrokiURL = "https://kroki.io"
	d.Timeout = 10 * time.Second
	d.RequestsPerSec, d.Burst, d.Concurrency = 5, 10, 4
	d.MermaidScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

	cfg.Assistant.Platforms = []string{"claude", "gemini", "chatgpt"}

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 256
	cfg.Cache.Compress = true
	cfg.Cache.TTL = 24 * time.Hour

	cfg.HTTPCache.MaxAge = 5 * time.Minute
	cfg.HTTPCache.StaleWhileRevalidate = time.Hour

	cfg.Instance.SiteName = "AI Course"
	cfg.Instance.RepoURL = "https://github.com/ashiffxd/LLM-Internals"

	cfg.Development.ResponseSaveLocation = "/tmp/aicourse/responses"

	cfg.Log.Level, cfg.Log.Format = "info", "console"
	cfg.Log.Outputs = []string{"/dev/stderr"}

	// The limiter is opt-in; these only apply once it is enabled.
	l := &cfg.Limiter
	l.CheckHeaders = true
	l.IPv4Prefix, l.IPv6Prefix = 24, 48
	l.RequestsPerMinute, l.Burst = 120, 40
}
