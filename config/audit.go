// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/core/audit"
)

const (
	responseDirPermissions = 0o700
	logFilePermissions     = 0o640
)

// setupAudit replaces the startup logger with the configured outputs and
// prepares the directory for saved renderer responses.
func (cfg *ServerConfig) setupAudit() error {
	// Development builds always log everything.
	if !cfg.Development.InDevelopment && cfg.Log.Level != "" {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}

		zerolog.SetGlobalLevel(level)
	}

	outputs := cfg.Log.Outputs
	if len(outputs) == 0 {
		outputs = []string{"/dev/stderr"}
	}

	writers := make([]io.Writer, 0, len(outputs))

	for _, output := range outputs {
		w, err := cfg.openLogOutput(output)
		if err != nil {
			// One unusable output should not silence the others.
			fmt.Fprintf(os.Stderr, "Skipping log output %s: %v\n", output, err)

			continue
		}

		writers = append(writers, w)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	audit.SaveResponses = cfg.Development.SaveResponses
	audit.ResponseDirectory = cfg.Development.ResponseSaveLocation

	if audit.SaveResponses {
		if err := os.MkdirAll(audit.ResponseDirectory, responseDirPermissions); err != nil {
			return fmt.Errorf("response directory %s: %w", audit.ResponseDirectory, err)
		}
	}

	return nil
}

// openLogOutput opens one entry of Log.Outputs. The standard streams always
// get console formatting; files get JSON when Log.Format is "json".
func (cfg *ServerConfig) openLogOutput(output string) (io.Writer, error) {
	switch output {
	case "/dev/stdout":
		return ConsoleWriter(os.Stdout), nil
	case "/dev/stderr":
		return ConsoleWriter(os.Stderr), nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec G304
	if err != nil {
		return nil, err
	}

	if cfg.Log.Format == "json" {
		return f, nil
	}

	return ConsoleWriter(f), nil
}

// ConsoleWriter formats log lines for people. Colour is used on terminals
// only, where request spans are also condensed to a single line.
func ConsoleWriter(f *os.File) io.Writer {
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())

	w := zerolog.ConsoleWriter{Out: f, NoColor: !color, TimeFormat: time.DateTime}

	if color {
		w.FormatPrepare = condenseSpan
	}

	return w
}

// condenseSpan rewrites an audit span event as "[reader] 200 GET /docs".
func condenseSpan(m map[string]any) error {
	if m["sys"] != "http" {
		return nil
	}

	m["message"] = fmt.Sprintf("[%v] %v %-5v %v", m["destination"], m["status_code"], m["method"], m["url"])

	for _, k := range []string{"sys", "destination", "status_code", "method", "url", "request_id"} {
		delete(m, k)
	}

	return nil
}
