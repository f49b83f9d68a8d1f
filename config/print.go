// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) print() {
	if zerolog.GlobalLevel() > zerolog.InfoLevel {
		return
	}

	cfg.logStart()

	configYAML, err := cfg.Marshal()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

// Marshal returns cfg as indented YAML.
//
// An empty resolve mode is printed as the mode it resolves to.
func (cfg *Config) Marshal() ([]byte, error) {
	out := *cfg

	if out.Resolve.RawMode == "" {
		if mode, err := out.effectiveMode(); err == nil {
			out.Resolve.RawMode = mode.String()
		}
	}

	return yaml.MarshalWithOptions(
		out,
		GetDurationEncoderOption(),
		yaml.Indent(2),
	)
}
