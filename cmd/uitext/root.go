// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/config"
)

var errUnknownFormat = errors.New("unknown output format")

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	lang       string
	format     string
	verbosity  int

	cfg config.Config
	app *app.App
}

// NewRootCmd creates the uitext command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "uitext",
		Short: "Resolve and render localized rich text documents",
		Long: `uitext resolves documents made of raw text, translated format strings and
plural forms into annotated text, then renders them as plain text, terminal
escape sequences or HTML.`,
		Version: config.BuildVersion,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(); err != nil {
				return err
			}

			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "configuration file (default: ./config.yaml, then $XDG_CONFIG_HOME/uitext/config.yaml)")
	flags.StringVarP(&c.lang, "lang", "l", "", "locale to resolve for (default: the base locale)")
	flags.StringVarP(&c.format, "format", "f", "", "output format: plain, ansi or html (default from configuration)")
	flags.CountVarP(&c.verbosity, "verbose", "v", "increase verbosity (-v INFO, -vv DEBUG)")

	rootCmd.AddCommand(
		c.renderCmd(),
		c.listCmd(),
		c.keysCmd(),
		c.validateCmd(),
		c.versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and opens the application.
func (c *cli) setup() error {
	// Commands write their results to stdout, so stay quiet unless asked.
	if _, ok := os.LookupEnv("UITEXT_LOG_LEVEL"); !ok || c.verbosity > 0 {
		if err := os.Setenv("UITEXT_LOG_LEVEL", verbosityLevel(c.verbosity)); err != nil {
			return err
		}
	}

	if err := c.cfg.Load(c.configPath); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if c.format != "" {
		switch c.format {
		case config.FormatPlain, config.FormatANSI, config.FormatHTML:
			c.cfg.Render.Format = c.format
		default:
			return fmt.Errorf("%w: %q", errUnknownFormat, c.format)
		}
	}

	a, err := app.Open(&c.cfg)
	if err != nil {
		return err
	}

	c.app = a

	return nil
}

func verbosityLevel(v int) string {
	switch {
	case v <= 0:
		return "warn"
	case v == 1:
		return "info"
	default:
		return "debug"
	}
}
