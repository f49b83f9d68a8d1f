// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package bundle provides a [uitext.Provider] backed by go-i18n message files.

Message files live in one directory, one file per locale:

	messages/en.toml
	messages/fr.yaml

Only the base locale file is parsed up front. Other files are parsed the first
time a lookup needs them, so the provider is meant for [uitext.Async]
resolution. Format strings use the braced dialect ([placeholder.Braced]):
"${0}" is the first argument.
*/
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/i18n"
	"codeberg.org/uitext/uitext/placeholder"
)

var (
	// ErrMissingMessage is returned for message IDs absent from both the
	// requested and the base locale.
	ErrMissingMessage = errors.New("bundle: missing message")

	// ErrNoBaseFile is returned by [New] when the base locale has no file.
	ErrNoBaseFile = errors.New("bundle: no message file for the base locale")
)

var extensions = []string{".toml", ".yaml", ".yml"}

// Options configures [New].
type Options struct {
	// BaseLocale is the fallback locale, [i18n.BaseLocale] when empty.
	BaseLocale string
	// Logger overrides the package logger.
	Logger *zerolog.Logger
}

// Bundle is a lazily loaded set of go-i18n message files. It is safe for
// concurrent use.
type Bundle struct {
	fsys   fs.FS
	base   language.Tag
	logger zerolog.Logger

	// files maps canonical tags to message file paths.
	files   map[string]string
	tags    []language.Tag
	matcher language.Matcher

	// mu guards bundle and loaded; go-i18n bundles are not safe for concurrent
	// writes and reads.
	mu     sync.RWMutex
	bundle *goi18n.Bundle
	loaded map[string]bool

	group singleflight.Group
}

// New indexes the message files in dir and parses the base locale file.
func New(fsys fs.FS, dir string, opts Options) (*Bundle, error) {
	if opts.BaseLocale == "" {
		opts.BaseLocale = i18n.BaseLocale
	}

	base, err := language.Parse(opts.BaseLocale)
	if err != nil {
		return nil, fmt.Errorf("bundle: invalid base locale %q: %w", opts.BaseLocale, err)
	}

	b := &Bundle{
		fsys:   fsys,
		base:   base,
		logger: log.With().Str("sys", "bundle").Logger(),
		files:  make(map[string]string),
		bundle: goi18n.NewBundle(base),
		loaded: make(map[string]bool),
	}

	if opts.Logger != nil {
		b.logger = *opts.Logger
	}

	b.bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	b.bundle.RegisterUnmarshalFunc("yaml", unmarshalYAML)
	b.bundle.RegisterUnmarshalFunc("yml", unmarshalYAML)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages directory: %w", err)
	}

	for _, entry := range entries {
		ext := path.Ext(entry.Name())
		if entry.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}

		localeName := strings.TrimSuffix(entry.Name(), ext)

		t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			b.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping invalid locale file")
			continue
		}

		b.files[t.String()] = path.Join(dir, entry.Name())
		b.tags = append(b.tags, t)
	}

	if _, ok := b.files[base.String()]; !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoBaseFile, base, dir)
	}

	// base is first to make it the default fallback for matching.
	slices.SortFunc(b.tags, func(x, y language.Tag) int {
		switch {
		case x == base:
			return -1
		case y == base:
			return 1
		default:
			return strings.Compare(x.String(), y.String())
		}
	})

	b.matcher = language.NewMatcher(b.tags)

	if err := b.ensure(context.Background(), base); err != nil {
		return nil, err
	}

	return b, nil
}

// Syntax reports the braced placeholder dialect used by message files.
func (b *Bundle) Syntax() placeholder.Syntax {
	return placeholder.Braced
}

// Languages returns the tags with a message file, the base first.
func (b *Bundle) Languages() []language.Tag {
	return slices.Clone(b.tags)
}

// Loaded reports whether the file of t has been parsed.
func (b *Bundle) Loaded(t language.Tag) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.loaded[t.String()]
}

// Match returns the tag with a message file that best matches t.
func (b *Bundle) Match(t language.Tag) language.Tag {
	if t == language.Und {
		return b.base
	}

	_, i, _ := b.matcher.Match(t)

	return b.tags[i]
}

// FormatString returns the message of key for the locale in ctx.
func (b *Bundle) FormatString(ctx context.Context, key string) (string, error) {
	return b.localize(ctx, &goi18n.LocalizeConfig{MessageID: key})
}

// PluralFormatString returns the plural form of key for quantity, selected by
// the CLDR rules of the locale in ctx.
func (b *Bundle) PluralFormatString(ctx context.Context, key string, quantity int) (string, error) {
	return b.localize(ctx, &goi18n.LocalizeConfig{MessageID: key, PluralCount: quantity})
}

func (b *Bundle) localize(ctx context.Context, cfg *goi18n.LocalizeConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t := b.Match(i18n.TagFrom(ctx))

	if err := b.ensure(ctx, t); err != nil {
		return "", err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	s, err := goi18n.NewLocalizer(b.bundle, t.String()).Localize(cfg)
	if err != nil {
		var notFound *goi18n.MessageNotFoundErr
		if errors.As(err, &notFound) {
			// go-i18n reports the miss in t alongside the base locale message.
			if s != "" {
				return s, nil
			}

			return "", fmt.Errorf("%w: %q for locale %s", ErrMissingMessage, cfg.MessageID, t)
		}

		return "", fmt.Errorf("bundle: localize %q: %w", cfg.MessageID, err)
	}

	return s, nil
}

// ensure parses the file of t unless it already has been. Concurrent callers
// for the same locale share one parse.
func (b *Bundle) ensure(ctx context.Context, t language.Tag) error {
	key := t.String()

	if b.Loaded(t) {
		return nil
	}

	ch := b.group.DoChan(key, func() (any, error) {
		if b.Loaded(t) {
			return nil, nil
		}

		return nil, b.load(key)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bundle) load(key string) error {
	file, ok := b.files[key]
	if !ok {
		return fmt.Errorf("bundle: no message file for %s", key)
	}

	data, err := fs.ReadFile(b.fsys, file)
	if err != nil {
		return fmt.Errorf("bundle: read %s: %w", file, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// go-i18n derives the language from the file name.
	mf, err := b.bundle.ParseMessageFileBytes(data, key+path.Ext(file))
	if err != nil {
		return fmt.Errorf("bundle: parse %s: %w", file, err)
	}

	b.loaded[key] = true

	b.logger.Debug().
		Str("locale", key).
		Str("file", file).
		Int("messages", len(mf.Messages)).
		Msg("Loaded message file")

	return nil
}

func unmarshalYAML(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
