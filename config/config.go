// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/uitext/uitext/idgen"
	"codeberg.org/uitext/uitext/uitext"
)

// Global exposes the application configuration.
var Global Config

// Catalog providers.
const (
	ProviderGettext = "gettext"
	ProviderBundle  = "bundle"
)

// Output formats of the command line renderer.
const (
	FormatPlain = "plain"
	FormatANSI  = "ansi"
	FormatHTML  = "html"
)

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Server struct {
		Host string `env:"UITEXT_HOST,overwrite" yaml:"host"`
		Port string `env:"UITEXT_PORT,overwrite" yaml:"port"`
	} `yaml:"server"`

	Catalog struct {
		// Provider is "gettext" (.po catalogues) or "bundle" (go-i18n message files).
		Provider string `env:"UITEXT_PROVIDER,overwrite" yaml:"provider"`
		// Directory holds the catalogues on disk. Empty uses the embedded ones.
		Directory  string `env:"UITEXT_CATALOG_DIR,overwrite" yaml:"directory"`
		Domain     string `env:"UITEXT_DOMAIN,overwrite" yaml:"domain"`
		BaseLocale string `env:"UITEXT_BASE_LOCALE,overwrite" yaml:"baseLocale"`

		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// fail the resolution.
		StrictMissingKeys bool `env:"UITEXT_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"catalog"`

	Resolve struct {
		// RawMode is "sync", "async" or empty for the provider's natural mode.
		RawMode string      `env:"UITEXT_MODE,overwrite" yaml:"mode"`
		Mode    uitext.Mode `yaml:"-"`
	} `yaml:"resolve"`

	Cache struct {
		Enabled  bool `env:"UITEXT_CACHE,overwrite" yaml:"enabled"`
		Size     int  `env:"UITEXT_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		Compress bool `env:"UITEXT_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	Limiter struct {
		// Enabled applies per-network rate limits to the sample server.
		Enabled           bool `env:"UITEXT_LIMITER,overwrite" yaml:"enabled"`
		RequestsPerMinute int  `env:"UITEXT_LIMITER_RPM,overwrite" yaml:"requestsPerMinute"`
		Burst             int  `env:"UITEXT_LIMITER_BURST,overwrite" yaml:"burst"`
		IPv4Prefix        int  `env:"UITEXT_LIMITER_IPV4_PREFIX" yaml:"ipv4Prefix"`
		IPv6Prefix        int  `env:"UITEXT_LIMITER_IPV6_PREFIX" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`

	Render struct {
		Format     string `env:"UITEXT_FORMAT,overwrite" yaml:"format"`
		Width      int    `env:"UITEXT_WIDTH,overwrite" yaml:"width"`
		Hyperlinks bool   `env:"UITEXT_HYPERLINKS,overwrite" yaml:"hyperlinks"`
	} `yaml:"render"`

	Instance struct {
		StartingTime string `yaml:"-"`
		CacheID      string `yaml:"-"`
	} `yaml:"-"`

	Development struct {
		InDevelopment bool `env:"UITEXT_DEV" yaml:"inDevelopment"`
		// Examples overrides the embedded example documents.
		Examples string `env:"UITEXT_EXAMPLES,overwrite" yaml:"examples"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"UITEXT_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"UITEXT_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"UITEXT_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources, taking the file
// path from the -config flag.
func (cfg *Config) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	if configFlagUserSet {
		return cfg.Load(parsedConfigFlagValue)
	}

	return cfg.Load("")
}

// Load loads the configuration with configFilePath as the YAML file.
//
// An empty configFilePath is resolved in order:
// 1. Environment variable (UITEXT_CONFIGFILE)
// 2. ./config.yaml, then ./config.yml
// 3. uitext/config.yaml under the XDG config directories
func (cfg *Config) Load(configFilePath string) error {
	if configFilePath == "" {
		configFilePath = findConfigFile()
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.CacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg, os.LookupEnv); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupLogging()

	cfg.print()

	return nil
}

func findConfigFile() string {
	if envVar := os.Getenv("UITEXT_CONFIGFILE"); envVar != "" {
		return envVar
	}

	for _, candidate := range []string{"./config.yaml", "./config.yml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if p, err := xdg.SearchConfigFile(filepath.Join("uitext", "config.yaml")); err == nil {
		return p
	}

	// readYAML skips a missing file
	return "./config.yaml"
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}

// logStart reports where the configuration came from.
func (cfg *Config) logStart() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.CacheID).
		Str("provider", cfg.Catalog.Provider).
		Str("mode", cfg.Resolve.Mode.String()).
		Msg("Starting uitext")
}
