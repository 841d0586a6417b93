// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"slices"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/ashiffxd/LLM-Internals/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errContentDirNotDirectory       = errors.New("Content.Dir is not a directory")
	errInvalidReloadSchedule        = errors.New("invalid Content.ReloadSchedule")
	errInvalidDiagramRenderer       = errors.New("invalid Diagram.Renderer value")
	errInvalidDiagramTimeout        = errors.New("Diagram.Timeout must be positive")
	errInvalidDiagramConcurrency    = errors.New("Diagram.Concurrency must be at least 1")
	errInvalidDiagramRate           = errors.New("Diagram.RequestsPerSecond and Diagram.Burst must not be negative")
	errUnknownAssistantPlatform     = errors.New("unknown assistant platform")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidLimiterRate           = errors.New("Limiter.RequestsPerMinute and Limiter.Burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
)

var (
	octalModeRegexp    = regexp.MustCompile(`^0?[0-7]{3}$`)
	symbolicModeRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
)

// validateAndSet checks the configuration and derives the parsed fields
// (socket mode, Kroki URL) from their raw forms.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	if err := cfg.validateContent(); err != nil {
		return err
	}

	if err := cfg.validateDiagram(); err != nil {
		return err
	}

	for _, name := range cfg.Assistant.Platforms {
		if _, ok := LookupAssistantPlatform(name); !ok {
			return fmt.Errorf("%w: %q", errUnknownAssistantPlatform, name)
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	// Validate RepoURL
	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.RequestsPerMinute <= 0 || cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

// validateListener checks the Unix socket settings, or fills in the TCP
// defaults when no socket is configured.
func (cfg *ServerConfig) validateListener() error {
	b := &cfg.Basic

	if b.UnixSocket == "" {
		if b.Host == "" {
			b.Host = "localhost"
		}

		if b.Port == "" {
			b.Port = "8282"
		}

		return nil
	}

	if b.Host != "" || b.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseSocketMode(b.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	b.UnixSocketPermissions = mode

	if b.UnixSocketUser != "" && !accountExists(b.UnixSocketUser, user.LookupId, user.Lookup) {
		return fmt.Errorf("%w: %s", errUnixSocketUserDoesNotExist, b.UnixSocketUser)
	}

	if b.UnixSocketGroup != "" && !accountExists(b.UnixSocketGroup, user.LookupGroupId, user.LookupGroup) {
		return fmt.Errorf("%w: %s", errUnixSocketGroupDoesNotExist, b.UnixSocketGroup)
	}

	return nil
}

// parseSocketMode accepts "" (0666), octal such as "660" or "0660", and
// symbolic modes such as "rw-rw----".
func parseSocketMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case octalModeRegexp.MatchString(raw):
		mode, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(mode), nil
	case symbolicModeRegexp.MatchString(raw):
		var mode os.FileMode

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (len(raw) - 1 - i)
			}
		}

		return mode, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnixSocketInvalidPermissions, raw)
	}
}

// accountExists looks name up by ID when it is numeric and by name otherwise.
func accountExists[T any](name string, byID, byName func(string) (T, error)) bool {
	lookup := byName
	if _, err := strconv.Atoi(name); err == nil {
		lookup = byID
	}

	_, err := lookup(name)

	return err == nil
}

func (cfg *ServerConfig) validateContent() error {
	if cfg.Content.Dir == "" {
		return nil
	}

	info, err := os.Stat(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("invalid Content.Dir: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", errContentDirNotDirectory, cfg.Content.Dir)
	}

	if cfg.Content.ReloadSchedule == "" {
		return nil
	}

	if _, err := cron.ParseStandard(cfg.Content.ReloadSchedule); err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidReloadSchedule, cfg.Content.ReloadSchedule, err)
	}

	return nil
}

func (cfg *ServerConfig) validateDiagram() error {
	if !slices.Contains([]DiagramRenderer{ClientRenderer, KrokiRenderer}, cfg.Diagram.Renderer) {
		return fmt.Errorf("%w: %q", errInvalidDiagramRenderer, cfg.Diagram.Renderer)
	}

	if cfg.Diagram.Renderer != KrokiRenderer {
		return nil
	}

	krokiURL, err := utils.ParseURL(cfg.Diagram.RawKrokiURL, "Kroki")
	if err != nil {
		return fmt.Errorf("invalid Kroki URL: %w", err)
	}

	cfg.Diagram.KrokiURL = *krokiURL

	if cfg.Diagram.Timeout <= 0 {
		return errInvalidDiagramTimeout
	}

	if cfg.Diagram.Concurrency < 1 {
		return errInvalidDiagramConcurrency
	}

	if cfg.Diagram.RequestsPerSec < 0 || cfg.Diagram.Burst < 0 {
		return errInvalidDiagramRate
	}

	return nil
}
