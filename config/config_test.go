// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/uitext/uitext/uitext"
)

func defaults(t *testing.T) *Config {
	t.Helper()

	var cfg Config

	cfg.SetDefaults()

	return &cfg
}

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]

		return v, ok
	}
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	cfg := defaults(t)
	require.NoError(t, cfg.validateAndSet())

	assert.Equal(t, ProviderGettext, cfg.Catalog.Provider)
	assert.Equal(t, uitext.Sync, cfg.Resolve.Mode)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8383", cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
}

func TestValidateAndSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		check   func(*testing.T, *Config)
	}{
		{
			name:   "bundle provider defaults to async",
			mutate: func(c *Config) { c.Catalog.Provider = ProviderBundle },
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, uitext.Async, c.Resolve.Mode)
			},
		},
		{
			name: "explicit mode wins over provider default",
			mutate: func(c *Config) {
				c.Catalog.Provider = ProviderBundle
				c.Resolve.RawMode = "sync"
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, uitext.Sync, c.Resolve.Mode)
			},
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Resolve.RawMode = "parallel" },
			wantErr: uitext.ErrInvalidMode,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Catalog.Provider = "xliff" },
			wantErr: errInvalidProvider,
		},
		{
			name:    "empty gettext domain",
			mutate:  func(c *Config) { c.Catalog.Domain = "" },
			wantErr: errEmptyDomain,
		},
		{
			name:    "bad base locale",
			mutate:  func(c *Config) { c.Catalog.BaseLocale = "not a tag" },
			wantErr: errInvalidBaseLocale,
		},
		{
			name:    "zero cache size",
			mutate:  func(c *Config) { c.Cache.Size = 0 },
			wantErr: errInvalidCacheSize,
		},
		{
			name: "zero cache size with cache disabled",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.Size = 0
			},
		},
		{
			name: "limiter without burst",
			mutate: func(c *Config) {
				c.Limiter.Enabled = true
				c.Limiter.Burst = 0
			},
			wantErr: errInvalidLimiterRate,
		},
		{
			name: "limiter prefix out of range",
			mutate: func(c *Config) {
				c.Limiter.Enabled = true
				c.Limiter.IPv6Prefix = 129
			},
			wantErr: errInvalidLimiterPrefix,
		},
		{
			name:    "unknown render format",
			mutate:  func(c *Config) { c.Render.Format = "pdf" },
			wantErr: errInvalidFormat,
		},
		{
			name:    "negative width",
			mutate:  func(c *Config) { c.Render.Width = -1 },
			wantErr: errInvalidWidth,
		},
		{
			name: "empty listener gets defaults",
			mutate: func(c *Config) {
				c.Server.Host, c.Server.Port = "", ""
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "localhost", c.Server.Host)
				assert.Equal(t, "8383", c.Server.Port)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaults(t)
			tt.mutate(cfg)

			err := cfg.validateAndSet()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestParseYAMLOverlaysDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaults(t)
	require.NoError(t, cfg.parseYAML([]byte(`
catalog:
  provider: bundle
  baseLocale: fr
resolve:
  mode: async
cache:
  cacheSize: 16
`)))

	assert.Equal(t, ProviderBundle, cfg.Catalog.Provider)
	assert.Equal(t, "fr", cfg.Catalog.BaseLocale)
	assert.Equal(t, "async", cfg.Resolve.RawMode)
	assert.Equal(t, 16, cfg.Cache.Size)
	// untouched
	assert.True(t, cfg.Cache.Compress)
	assert.Equal(t, FormatANSI, cfg.Render.Format)

	require.Error(t, cfg.parseYAML([]byte("catalogue:\n  provider: bundle\n")))
}

func TestReadEnv(t *testing.T) {
	t.Parallel()

	cfg := defaults(t)
	cfg.Limiter.IPv4Prefix = 20

	err := readEnv(cfg, envMap(map[string]string{
		"UITEXT_PROVIDER":            "bundle",
		"UITEXT_CACHE_SIZE":          "32",
		"UITEXT_CACHE_COMPRESS":      "false",
		"UITEXT_LOG_OUTPUTS":         " /dev/stdout, ,/tmp/uitext.log ",
		"UITEXT_DEV":                 "true",
		"UITEXT_LIMITER_IPV4_PREFIX": "16",
		"UITEXT_STRICT_MISSING_KEYS": "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, ProviderBundle, cfg.Catalog.Provider)
	assert.Equal(t, 32, cfg.Cache.Size)
	assert.False(t, cfg.Cache.Compress)
	assert.Equal(t, []string{"/dev/stdout", "/tmp/uitext.log"}, cfg.Log.Outputs)
	assert.True(t, cfg.Development.InDevelopment)
	assert.True(t, cfg.Catalog.StrictMissingKeys)
	// no overwrite option
	assert.Equal(t, 20, cfg.Limiter.IPv4Prefix)
}

func TestReadEnvErrors(t *testing.T) {
	t.Parallel()

	cfg := defaults(t)
	require.Error(t, readEnv(cfg, envMap(map[string]string{"UITEXT_CACHE_SIZE": "many"})))
	require.Error(t, readEnv(cfg, envMap(map[string]string{"UITEXT_HYPERLINKS": "sometimes"})))
	require.ErrorIs(t, readEnv(*cfg, envMap(nil)), errExpectedPointerToStruct)
}

func TestParseDotEnv(t *testing.T) {
	t.Parallel()

	vars := parseDotEnv(".env", []byte(`
# comment
UITEXT_PROVIDER=bundle
UITEXT_DOMAIN = "messages"
UITEXT_BASE_LOCALE='fr'
UITEXT_EMPTY=""
not a pair
`))

	assert.Equal(t, map[string]string{
		"UITEXT_PROVIDER":    "bundle",
		"UITEXT_DOMAIN":      "messages",
		"UITEXT_BASE_LOCALE": "fr",
		"UITEXT_EMPTY":       "",
	}, vars)
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	cfg := defaults(t)
	cfg.Catalog.Provider = ProviderBundle
	require.NoError(t, cfg.validateAndSet())

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "provider: bundle")
	assert.Contains(t, string(out), "mode: async")
	assert.NotContains(t, string(out), "build")
	assert.Empty(t, cfg.Resolve.RawMode, "printing must not pin the mode")

	cfg = defaults(t)
	out, err = cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "mode: sync")

	cfg.Catalog.Provider = ProviderBundle
	cfg.Resolve.RawMode = "sync"
	out, err = cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "mode: sync")
}

func TestPrettyResolveEvent(t *testing.T) {
	t.Parallel()

	m := map[string]any{
		"sys":      "resolve",
		"locale":   "fr",
		"mode":     "async",
		"document": "welcome",
		"len":      "1.20K",
		"dur":      12,
	}
	require.NoError(t, prettyResolveEvent(m))

	assert.Equal(t, "[fr] async welcome 1.20K", m["message"])
	assert.NotContains(t, m, "sys")
	assert.Contains(t, m, "dur")
}
