// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/document"
	"codeberg.org/uitext/uitext/i18n"
	"codeberg.org/uitext/uitext/render/ansi"
	"codeberg.org/uitext/uitext/render/html"
	"codeberg.org/uitext/uitext/richtext"
)

var errValidation = errors.New("validation failed")

func (c *cli) renderCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "render [document...]",
		Short: "Resolve and print documents",
		Long: `Render resolves the named example documents, or every document when none
is named, and prints them in the configured output format. With --file it
renders a single document read from disk instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := c.localeContext(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if file != "" {
				doc, err := document.ReadFile(os.DirFS(filepath.Dir(file)), filepath.Base(file))
				if err != nil {
					return err
				}

				text, err := c.app.ResolveNode(ctx, doc.Node())
				if err != nil {
					return err
				}

				return c.write(ctx, out, text)
			}

			if len(args) == 0 {
				args = c.app.Documents.Names()
			}

			for i, name := range args {
				text, err := c.app.Resolve(ctx, name)
				if err != nil {
					return err
				}

				if i > 0 {
					fmt.Fprintln(out)
				}

				if err := c.write(ctx, out, text); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "render a document file instead of the examples")

	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the example documents and available locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Documents:")

			for _, name := range c.app.Documents.Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}

			fmt.Fprintln(out, "Locales:")

			base := c.app.Catalogue.Match(language.Und)
			for _, tag := range c.app.Catalogue.Languages() {
				if tag == base {
					fmt.Fprintf(out, "  %s (base)\n", tag)
				} else {
					fmt.Fprintf(out, "  %s\n", tag)
				}
			}

			return nil
		},
	}
}

func (c *cli) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the message keys used by the example documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			plural := c.app.Documents.PluralKeys()

			for _, k := range c.app.Documents.Keys() {
				if slices.Contains(plural, k) {
					fmt.Fprintf(out, "%s (plural)\n", k)
				} else {
					fmt.Fprintln(out, k)
				}
			}

			return nil
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check document files, or resolve every example in every locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failures := 0

			if len(args) > 0 {
				for _, file := range args {
					if _, err := document.ReadFile(os.DirFS(filepath.Dir(file)), filepath.Base(file)); err != nil {
						fmt.Fprintf(out, "FAIL %s: %v\n", file, err)
						failures++

						continue
					}

					fmt.Fprintf(out, "ok   %s\n", file)
				}
			} else {
				for _, tag := range c.app.Catalogue.Languages() {
					ctx := i18n.WithTag(cmd.Context(), tag)

					for _, name := range c.app.Documents.Names() {
						if _, err := c.app.Resolve(ctx, name); err != nil {
							fmt.Fprintf(out, "FAIL %s/%s: %v\n", tag, name, err)
							failures++

							continue
						}

						fmt.Fprintf(out, "ok   %s/%s\n", tag, name)
					}
				}
			}

			if failures > 0 {
				return fmt.Errorf("%w: %d problem(s)", errValidation, failures)
			}

			return nil
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uitext version %s\n", config.BuildVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "  revision: %s\n", c.cfg.Build.Revision())
		},
	}
}

// localeContext attaches the --lang locale to ctx.
func (c *cli) localeContext(ctx context.Context) (context.Context, error) {
	tag, err := c.app.ParseLocale(c.lang)
	if err != nil {
		return nil, err
	}

	return i18n.WithTag(ctx, tag), nil
}

// write prints text to out in the configured format.
func (c *cli) write(ctx context.Context, out io.Writer, text richtext.Text) error {
	switch c.cfg.Render.Format {
	case config.FormatHTML:
		if err := html.Render(ctx, out, text); err != nil {
			return err
		}

		_, err := fmt.Fprintln(out)

		return err
	case config.FormatANSI:
		return ansi.New(out,
			ansi.WithWidth(c.cfg.Render.Width),
			ansi.WithHyperlinks(c.cfg.Render.Hyperlinks)).Print(text)
	default:
		_, err := fmt.Fprintln(out, text.String())

		return err
	}
}
