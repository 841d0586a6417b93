// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// Possible values for DiagramRenderer.
const (
	ClientRenderer DiagramRenderer = "client"
	KrokiRenderer  DiagramRenderer = "kroki"
)

// DiagramRenderer selects where diagram sources are turned into graphics.
type DiagramRenderer string

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"AICOURSE_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"AICOURSE_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"AICOURSE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"AICOURSE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"AICOURSE_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"AICOURSE_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Content struct {
		// Dir, when set, replaces the embedded course content with a directory on disk.
		Dir string `env:"AICOURSE_CONTENT_DIR,overwrite" yaml:"dir"`
		// ReloadSchedule is a cron expression; only used together with Dir.
		ReloadSchedule string `env:"AICOURSE_CONTENT_RELOAD_SCHEDULE,overwrite" yaml:"reloadSchedule"`
	} `yaml:"content"`

	Diagram struct {
		Renderer         DiagramRenderer `env:"AICOURSE_DIAGRAM_RENDERER,overwrite" yaml:"renderer"`
		RawKrokiURL      string          `env:"AICOURSE_KROKI_URL,overwrite" yaml:"krokiUrl"`
		KrokiURL         url.URL         `yaml:"-"`
		Timeout          time.Duration   `env:"AICOURSE_DIAGRAM_TIMEOUT,overwrite" yaml:"timeout"`
		RequestsPerSec   int             `env:"AICOURSE_DIAGRAM_RATE,overwrite" yaml:"requestsPerSecond"`
		Burst            int             `env:"AICOURSE_DIAGRAM_BURST,overwrite" yaml:"burst"`
		Concurrency      int             `env:"AICOURSE_DIAGRAM_CONCURRENCY,overwrite" yaml:"concurrency"`
		MermaidScriptURL string          `env:"AICOURSE_MERMAID_SCRIPT_URL,overwrite" yaml:"mermaidScriptUrl"`
	} `yaml:"diagram"`

	Assistant struct {
		// Platforms lists the enabled entries of BuiltInAssistantPlatforms, in display order.
		Platforms []string `env:"AICOURSE_ASSISTANT_PLATFORMS,overwrite" yaml:"platforms"`
	} `yaml:"assistant"`

	Cache struct {
		Enabled  bool          `env:"AICOURSE_CACHE,overwrite" yaml:"enabled"`
		Size     int           `env:"AICOURSE_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		Compress bool          `env:"AICOURSE_CACHE_COMPRESS,overwrite" yaml:"compress"`
		TTL      time.Duration `env:"AICOURSE_CACHE_TTL,overwrite" yaml:"cacheTTL"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"AICOURSE_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"AICOURSE_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		SiteName          string `env:"AICOURSE_SITE_NAME,overwrite" yaml:"siteName"`
		RepoURL           string `env:"AICOURSE_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"AICOURSE_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"AICOURSE_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"AICOURSE_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"AICOURSE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"AICOURSE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"AICOURSE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled           bool     `env:"AICOURSE_LIMITER,overwrite" yaml:"enabled"`
		PassIPs           []string `env:"AICOURSE_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs          []string `env:"AICOURSE_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		FilterLocal       bool     `env:"AICOURSE_LIMITER_FILTER_LOCAL,overwrite" yaml:"filterLocal"`
		CheckHeaders      bool     `env:"AICOURSE_LIMITER_CHECK_HEADERS,overwrite" yaml:"checkHeaders"`
		IPv4Prefix        int      `env:"AICOURSE_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix        int      `env:"AICOURSE_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
		RequestsPerMinute int      `env:"AICOURSE_LIMITER_RATE,overwrite" yaml:"requestsPerMinute"`
		Burst             int      `env:"AICOURSE_LIMITER_BURST,overwrite" yaml:"burst"`
	} `yaml:"limiter"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"AICOURSE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig fills cfg from, in increasing precedence, the defaults, the
// YAML file, a .env file and the environment. It then validates the result,
// switches logging to the configured outputs and prints the configuration.
func (cfg *ServerConfig) LoadConfig() error {
	cfg.SetDefaults()

	cfg.Build = readBuildInfo()
	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath()); err != nil {
		return fmt.Errorf("configuration file: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return fmt.Errorf(".env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.setupAudit(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	cfg.print()

	if isContainerized() && cfg.Basic.UnixSocket == "" && !isWildcardHost(cfg.Basic.Host) {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a container but not listening on a wildcard address such as 0.0.0.0 or ::, the site may be unreachable from outside")
	}

	return nil
}

func isWildcardHost(host string) bool {
	return host == "0.0.0.0" || host == "::" || host == ""
}

var (
	staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/", "/icons/"}
	devSkippedPathPrefixes    = []string{"/debug/pprof/"}
)

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if cfg.Development.InDevelopment {
		for _, prefix := range devSkippedPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

// isContainerized guesses whether the process runs in a container.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	for _, runtime := range []string{"docker", "kubepods", "containerd", "lxc", "crio", ".machine"} {
		if strings.Contains(string(cgroup), runtime) {
			return true
		}
	}

	return false
}
