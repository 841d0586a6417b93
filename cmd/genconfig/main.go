// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files from the defaults in
// package config, one for environment variables and one for YAML.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/config"
	"github.com/ashiffxd/LLM-Internals/core/audit"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	envFileHeader = `# AI course site configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# AI course site configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	contentComment = `  # -- Leave dir empty to serve the course content built into the binary.
  # Set reloadSchedule to a cron expression to pick up edits without a restart.`

	diagramComment = `  # -- "client" renders diagrams in the browser; "kroki" renders them on the
  # server through the Kroki HTTP API at krokiUrl.`
)

// uncommentedEnvVars are emitted with their default value so that a copied
// file works as-is.
var uncommentedEnvVars = []string{
	"AICOURSE_HOST",
	"AICOURSE_PORT",
	"AICOURSE_DIAGRAM_RENDERER",
}

// sectionComments are placed above the matching top-level YAML key.
var sectionComments = map[string]string{
	"content:": contentComment,
	"diagram:": diagramComment,
}

func main() {
	audit.SetDefaultLogger()

	outDir := flag.String("o", "deploy", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, dirPerm); err != nil {
		log.Fatal().Err(err).Str("path", *outDir).Msg("Failed to create output directory")
	}

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	writeFile(filepath.Join(*outDir, ".env.example"), envFile(cfg))
	writeFile(filepath.Join(*outDir, "config.yaml.example"), yamlFile(cfg))
}

func writeFile(path, contents string) {
	if err := os.WriteFile(path, []byte(contents), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// envFile renders one commented line per env-tagged field, grouped by section.
func envFile(cfg *config.ServerConfig) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			tag, ok := innerTyp.Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name := strings.Split(tag, ",")[0]
			value := structValue.Field(j)

			switch {
			case slices.Contains(uncommentedEnvVars, name):
				fmt.Fprintf(&sb, "%s=\"%v\"\n", name, value.Interface())
			case value.Kind() == reflect.Slice:
				// env lists are comma separated
				items := make([]string, value.Len())
				for k := range value.Len() {
					items[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", name, strings.Join(items, ","))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// yamlFile marshals cfg and comments out every leaf so the file documents the
// defaults without overriding them.
func yamlFile(cfg *config.ServerConfig) string {
	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.DurationAsString(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			if comment, ok := sectionComments[trimmed]; ok {
				sb.WriteString(comment + "\n")
			}

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String()
}
