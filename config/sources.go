// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	configFlag    = "config"
	configFileEnv = "AICOURSE_CONFIGFILE"
)

// fallbackConfigFiles are tried in order when neither the flag nor the
// environment names a file.
var fallbackConfigFiles = []string{"./config.yaml", "./config.yml"}

// configFilePath picks the YAML file to read: the -config flag, then
// AICOURSE_CONFIGFILE, then the first fallback that exists. It returns ""
// when there is nothing to read.
func configFilePath() string {
	if flag.Lookup(configFlag) == nil {
		flag.String(configFlag, "", "Path to a YAML configuration file.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if path := flag.Lookup(configFlag).Value.String(); path != "" {
		return path
	}

	if path := os.Getenv(configFileEnv); path != "" {
		return path
	}

	for _, path := range fallbackConfigFiles {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// readYAML overlays the file at path onto cfg. A missing file is not an error.
func (cfg *ServerConfig) readYAML(path string) error {
	if path == "" {
		log.Info().Msg("No configuration file, using defaults and environment")

		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("Configuration file not found, skipping")

		return nil
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded configuration file")

	return nil
}

// loadDotEnv exports the variables of the first .env file found in the
// working directory or next to the binary. Variables already set win.
func loadDotEnv() error {
	var dirs []string

	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")

		err := godotenv.Load(path)
		if err == nil {
			log.Info().Str("path", path).Msg("Loaded .env file")

			return nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return nil
}
