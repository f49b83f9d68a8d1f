// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files under deploy/.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/uitext/uitext/audit"
	"codeberg.org/uitext/uitext/config"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# uitext configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# uitext configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

func main() {
	audit.SetDefaultLogger()

	cfg := &config.Config{}
	cfg.SetDefaults()

	write(envOutputFile, envFile(cfg))

	content, err := yamlFile(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	write(yamlOutputFile, content)
}

func write(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// envFile lists every env-tagged field of cfg grouped by section.
func envFile(cfg *config.Config) string {
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

		var section strings.Builder

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName, _, _ := strings.Cut(tag, ",")

			switch {
			case envVarName == "UITEXT_PORT" || envVarName == "UITEXT_HOST":
				fmt.Fprintf(&section, "%s=\"%v\"\n", envVarName, value.Interface())
			case value.Kind() == reflect.Slice:
				fmt.Fprintf(&section, "# %s=%s\n", envVarName, joinSlice(value))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&section, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&section, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		if section.Len() == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n%s\n", structField.Name, section.String())
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func joinSlice(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := range v.Len() {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}

	return strings.Join(parts, ",")
}

// yamlFile renders cfg as YAML with every value commented out.
func yamlFile(cfg *config.Config) (string, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys are section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)
			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
