// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package app assembles a catalogue provider, a resolver, a memo cache and the
example documents from a [config.Config]. The sample server and the uitext
command share it.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/assets"
	"codeberg.org/uitext/uitext/audit"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/document"
	"codeberg.org/uitext/uitext/i18n"
	"codeberg.org/uitext/uitext/i18n/bundle"
	"codeberg.org/uitext/uitext/lrucache"
	"codeberg.org/uitext/uitext/richtext"
	"codeberg.org/uitext/uitext/uitext"
)

// ErrUnknownDocument is returned for document names absent from the set.
var ErrUnknownDocument = errors.New("app: unknown document")

// Catalogue is a provider that knows its locales.
type Catalogue interface {
	uitext.Provider
	uitext.SyntaxProvider

	// Languages lists the available locales.
	Languages() []language.Tag
	// Match maps any tag, including [language.Und], to an available one.
	Match(t language.Tag) language.Tag
}

var (
	_ Catalogue = (*i18n.Catalog)(nil)
	_ Catalogue = (*bundle.Bundle)(nil)
)

// App resolves named documents for a locale.
type App struct {
	Catalogue Catalogue
	Resolver  *uitext.Resolver
	Documents *document.Set

	// cache is nil when memoization is disabled.
	cache   *lrucache.Cache
	memos   map[string]*uitext.Memo
	matcher language.Matcher
	logger  zerolog.Logger
}

// Open builds an App from cfg. Catalogues and documents come from the
// embedded assets unless cfg points at a directory or file on disk.
func Open(cfg *config.Config) (*App, error) {
	catalogue, err := openCatalogue(cfg)
	if err != nil {
		return nil, err
	}

	docs, err := openDocuments(cfg.Development.Examples)
	if err != nil {
		return nil, err
	}

	var cache *lrucache.Cache

	if cfg.Cache.Enabled {
		cache, err = lrucache.New(cfg.Cache.Size, cfg.Cache.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating memo cache: %w", err)
		}
	}

	return New(catalogue, docs, cache, cfg.Resolve.Mode), nil
}

// New assembles an App. A nil cache disables memoization.
func New(catalogue Catalogue, docs *document.Set, cache *lrucache.Cache, mode uitext.Mode) *App {
	logger := log.With().Str("sys", "uitext").Logger()

	a := &App{
		Catalogue: catalogue,
		Resolver: uitext.NewResolver(catalogue,
			uitext.WithMode(mode),
			uitext.WithLogger(logger)),
		Documents: docs,
		cache:     cache,
		memos:     make(map[string]*uitext.Memo),
		matcher:   language.NewMatcher(baseFirst(catalogue)),
		logger:    logger,
	}

	if cache != nil {
		for _, name := range docs.Names() {
			doc, _ := docs.Get(name)
			a.memos[name] = uitext.NewMemo(a.Resolver, doc.Node(), cache, a.localeKey)
		}
	}

	return a
}

// baseFirst lists the locales of c with the base locale first, so that the
// matcher falls back to it.
func baseFirst(c Catalogue) []language.Tag {
	base := c.Match(language.Und)
	tags := []language.Tag{base}

	for _, t := range c.Languages() {
		if t != base {
			tags = append(tags, t)
		}
	}

	return tags
}

func openCatalogue(cfg *config.Config) (Catalogue, error) {
	logger := log.Logger

	var (
		fsys fs.FS = assets.FS
		dir        = ""
	)

	if cfg.Catalog.Directory != "" {
		fsys, dir = os.DirFS(cfg.Catalog.Directory), "."
	}

	switch cfg.Catalog.Provider {
	case config.ProviderBundle:
		if dir == "" {
			dir = assets.MessagesDir
		}

		b, err := bundle.New(fsys, dir, bundle.Options{
			BaseLocale: cfg.Catalog.BaseLocale,
			Logger:     &logger,
		})
		if err != nil {
			return nil, fmt.Errorf("loading message bundle: %w", err)
		}

		return b, nil
	default:
		if dir == "" {
			dir = assets.PoDir
		}

		c, err := i18n.Load(fsys, dir, i18n.Options{
			Domain:            cfg.Catalog.Domain,
			BaseLocale:        cfg.Catalog.BaseLocale,
			StrictMissingKeys: cfg.Catalog.StrictMissingKeys,
			Logger:            &logger,
		})
		if err != nil {
			return nil, fmt.Errorf("loading gettext catalogues: %w", err)
		}

		return c, nil
	}
}

func openDocuments(path string) (*document.Set, error) {
	if path == "" {
		return document.ReadSet(assets.FS, assets.ExamplesFile)
	}

	return document.ReadSet(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// localeKey keys memo entries by the matched locale of ctx.
func (a *App) localeKey(ctx context.Context) string {
	return a.Catalogue.Match(i18n.TagFrom(ctx)).String()
}

// Locale returns the available locale that best matches the preferences of r.
func (a *App) Locale(r *http.Request) language.Tag {
	tag, _ := language.MatchStrings(a.matcher, i18n.Preferences(r)...)

	return a.Catalogue.Match(tag)
}

// ParseLocale matches a BCP 47 string against the available locales. An empty
// string selects the base locale.
func (a *App) ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return a.Catalogue.Match(language.Und), nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}

	matched, _ := language.MatchStrings(a.matcher, tag.String())

	return a.Catalogue.Match(matched), nil
}

// Resolve resolves the named document for the locale in ctx.
func (a *App) Resolve(ctx context.Context, name string) (richtext.Text, error) {
	doc, ok := a.Documents.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, name)
	}

	span := audit.Span{
		Document: name,
		Locale:   a.localeKey(ctx),
		Mode:     a.Resolver.Mode().String(),
	}

	ctx = span.Begin(ctx)
	defer func() {
		span.End()
		span.Log()
	}()

	var (
		text richtext.Text
		err  error
	)

	if memo, ok := a.memos[name]; ok {
		span.Cached = memo.Cached(ctx)
		text, err = memo.Resolve(ctx)
	} else {
		text, err = a.Resolver.Resolve(ctx, doc.Node())
	}

	span.Error = err
	if text != nil {
		span.Len = text.Len()
	}

	return text, err
}

// ResolveNode resolves an ad hoc node without memoization.
func (a *App) ResolveNode(ctx context.Context, n uitext.Node) (richtext.Text, error) {
	return a.Resolver.Resolve(ctx, n)
}

// Invalidate drops every memoized output.
func (a *App) Invalidate() {
	for _, memo := range a.memos {
		memo.Invalidate()
	}
}

// CacheStats reports memo cache usage. ok is false when the cache is disabled.
func (a *App) CacheStats() (stats lrucache.Stats, ok bool) {
	if a.cache == nil {
		return lrucache.Stats{}, false
	}

	return a.cache.Stats(), true
}
