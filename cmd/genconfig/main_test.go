// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/uitext/uitext/config"
)

func defaults() *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()

	return cfg
}

func TestEnvFile(t *testing.T) {
	t.Parallel()

	out := envFile(defaults())

	assert.Contains(t, out, "## Server\nUITEXT_HOST=\"localhost\"\nUITEXT_PORT=\"8383\"\n")
	assert.Contains(t, out, "# UITEXT_PROVIDER=gettext\n")
	assert.Contains(t, out, "# UITEXT_CATALOG_DIR=\n")
	assert.Contains(t, out, "# UITEXT_LOG_OUTPUTS=/dev/stderr\n")
	assert.NotContains(t, out, "## Instance")
	assert.NotContains(t, out, "## Build")
}

func TestYAMLFile(t *testing.T) {
	t.Parallel()

	out, err := yamlFile(defaults())
	require.NoError(t, err)

	assert.Contains(t, out, "\nserver:\n  # host: localhost\n")
	assert.Contains(t, out, "\ncatalog:\n  # provider: gettext\n")
	assert.NotContains(t, out, "instance")
}
