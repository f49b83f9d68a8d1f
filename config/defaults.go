// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "codeberg.org/uitext/uitext/i18n"

const (
	defaultCacheSize   = 256
	defaultRenderWidth = 80

	defaultLimiterRPM   = 120
	defaultLimiterBurst = 60
	defaultIPv4Prefix   = 24
	defaultIPv6Prefix   = 48
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8383"

	cfg.Catalog.Provider = ProviderGettext
	cfg.Catalog.Directory = ""
	cfg.Catalog.Domain = i18n.DefaultDomain
	cfg.Catalog.BaseLocale = i18n.BaseLocale
	cfg.Catalog.StrictMissingKeys = false

	cfg.Resolve.RawMode = ""

	cfg.Cache.Enabled = true
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.Compress = true

	cfg.Limiter.Enabled = false
	cfg.Limiter.RequestsPerMinute = defaultLimiterRPM
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.IPv4Prefix = defaultIPv4Prefix
	cfg.Limiter.IPv6Prefix = defaultIPv6Prefix

	cfg.Render.Format = FormatANSI
	cfg.Render.Width = defaultRenderWidth
	cfg.Render.Hyperlinks = true

	cfg.Development.InDevelopment = false
	cfg.Development.Examples = ""

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
