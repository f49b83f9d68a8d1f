// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/uitext"
)

// validation errors.
var (
	errInvalidLimiterRate           = errors.New("invalid Limiter rate: RequestsPerMinute and Burst must be positive")
	errInvalidLimiterPrefix         = errors.New("invalid Limiter network prefix")
	errInvalidProvider              = errors.New("invalid Catalog.Provider value")
	errInvalidBaseLocale            = errors.New("invalid Catalog.BaseLocale value")
	errEmptyDomain                  = errors.New("Catalog.Domain cannot be empty")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidFormat                = errors.New("invalid Render.Format value")
	errInvalidWidth                 = errors.New("Render.Width cannot be negative")
	errInvalidLogFormat             = errors.New("invalid Log.Format value")
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	switch cfg.Catalog.Provider {
	case ProviderGettext, ProviderBundle:
	default:
		return fmt.Errorf("%w: %q", errInvalidProvider, cfg.Catalog.Provider)
	}

	if cfg.Catalog.Provider == ProviderGettext && cfg.Catalog.Domain == "" {
		return errEmptyDomain
	}

	if _, err := language.Parse(cfg.Catalog.BaseLocale); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBaseLocale, err)
	}

	mode, err := cfg.effectiveMode()
	if err != nil {
		return err
	}

	cfg.Resolve.Mode = mode

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if cfg.Limiter.Enabled {
		switch {
		case cfg.Limiter.RequestsPerMinute <= 0 || cfg.Limiter.Burst <= 0:
			return errInvalidLimiterRate
		case cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32,
			cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128:
			return errInvalidLimiterPrefix
		}
	}

	switch cfg.Render.Format {
	case FormatPlain, FormatANSI, FormatHTML:
	default:
		return fmt.Errorf("%w: %q", errInvalidFormat, cfg.Render.Format)
	}

	if cfg.Render.Width < 0 {
		return errInvalidWidth
	}

	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

// validateListener fills in the default TCP address.
func (cfg *Config) validateListener() error {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
		log.Info().
			Str("host", cfg.Server.Host).
			Msg("Binding to default host")
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8383"
		log.Info().
			Str("port", cfg.Server.Port).
			Msg("Using default port")
	}

	return nil
}

// effectiveMode is the configured resolution mode, or the natural mode of the
// provider when none is set.
func (cfg *Config) effectiveMode() (uitext.Mode, error) {
	if cfg.Resolve.RawMode != "" {
		return uitext.ParseMode(cfg.Resolve.RawMode)
	}

	// Gettext lookups are in-memory; message bundles load lazily.
	if cfg.Catalog.Provider == ProviderBundle {
		return uitext.Async, nil
	}

	return uitext.Sync, nil
}
