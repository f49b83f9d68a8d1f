// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFilePermissions = 0o666

// setupLogging configures the global logger from the Log section.
func (cfg *Config) setupLogging() {
	if cfg.Development.InDevelopment {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	writers := []io.Writer{}

	if len(cfg.Log.Outputs) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	} else {
		for _, output := range cfg.Log.Outputs {
			var w io.Writer

			switch output {
			case "/dev/stdout":
				w = cfg.writerFor(os.Stdout)
			case "/dev/stderr":
				w = cfg.writerFor(os.Stderr)
			default:
				file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
				if err != nil {
					fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

					continue
				}

				w = cfg.writerFor(file)
			}

			writers = append(writers, w)
		}
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}

func (cfg *Config) writerFor(f *os.File) io.Writer {
	if cfg.Log.Format == "json" {
		return f
	}

	return ConsoleWriter(f)
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// ConsoleWriter returns a writer for zerolog that has NoColor:isTerminal(f).
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isTerminal(f)

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = prettyResolveEvent
	}

	return w
}

// prettyResolveEvent folds resolution span fields into the message.
func prettyResolveEvent(m map[string]any) error {
	if sys, ok := m["sys"]; ok && sys == "resolve" {
		m["message"] = fmt.Sprintf("[%s] %-5s %s %s", m["locale"], m["mode"], m["document"], m["len"])
		delete(m, "sys")
		delete(m, "locale")
		delete(m, "mode")
		delete(m, "document")
		delete(m, "len")
	}

	return nil
}
