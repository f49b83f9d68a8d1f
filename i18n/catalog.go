// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// DefaultDomain is the gettext domain loaded when [Options.Domain] is empty.
const DefaultDomain = "uitext"

// ErrNoCatalogues is returned by [Load] when dir holds no .po file and the
// base locale therefore has nothing to fall back on.
var ErrNoCatalogues = errors.New("i18n: no .po catalogues found")

// Options configures [Load].
type Options struct {
	// Domain is the gettext domain; the template file "<Domain>.pot" is skipped.
	Domain string
	// BaseLocale is the fallback locale, [BaseLocale] when empty.
	BaseLocale string
	// StrictMissingKeys turns missing translations into [ErrMissingKey].
	StrictMissingKeys bool
	// Logger overrides the package logger.
	Logger *zerolog.Logger
}

// Catalog is a set of gettext catalogues, one per locale. It is safe for
// concurrent use once loaded.
type Catalog struct {
	domain string
	base   language.Tag
	strict bool
	logger zerolog.Logger

	// locales maps canonical BCP 47 tags, for example "en", "ja", "pt-BR",
	// to their loaded gotext.Locale.
	locales map[string]*gotext.Locale

	// tags holds the base tag followed by every loaded tag.
	tags []language.Tag

	// matcher is derived from tags; the base comes first and is the default.
	matcher language.Matcher

	// missing deduplicates WARN logs for missing msgids in strict mode.
	// The key is locale+"\x00"+msgid.
	missing sync.Map
}

// Load reads gettext catalogues from fsys. The expected layout is:
//
//	<dir>/<locale>.po
//
// The <locale> filename part may use hyphens or underscores, for example
// "pt-BR.po" or "pt_BR.po", and is normalised to a canonical BCP 47 language
// tag for matching. The template file "<dir>/<domain>.pot" and files with an
// invalid locale name are skipped. The base locale is always included and
// acts as the default fallback.
func Load(fsys fs.FS, dir string, opts Options) (*Catalog, error) {
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}

	if opts.BaseLocale == "" {
		opts.BaseLocale = BaseLocale
	}

	base, err := language.Parse(opts.BaseLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid base locale %q: %w", opts.BaseLocale, err)
	}

	c := &Catalog{
		domain:  opts.Domain,
		base:    base,
		strict:  opts.StrictMissingKeys,
		logger:  log.With().Str("sys", "i18n").Logger(),
		locales: make(map[string]*gotext.Locale),
	}

	if opts.Logger != nil {
		c.logger = *opts.Logger
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read po directory: %w", err)
	}

	var tagsList []language.Tag

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".po") {
			continue
		}

		fileName := entry.Name()
		localeName := strings.TrimSuffix(fileName, ".po")

		// Accept both underscore and hyphen.
		t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			c.logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")
			continue
		}

		canonical := strippedTagString(t)

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(dir, fileName))

		loc := gotext.NewLocale("", canonical) // Base path is unused when manually adding translators.
		loc.AddTranslator(c.domain, po)

		c.locales[canonical] = loc

		tagsList = append(tagsList, language.Make(canonical))

		c.logger.Debug().
			Str("locale", canonical).
			Str("domain", c.domain).
			Msg("Loaded locale")
	}

	if len(tagsList) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCatalogues, dir)
	}

	// base is first to make it the default fallback for matching.
	all := make([]language.Tag, 0, len(tagsList)+1)
	all = append(all, base)

	sort.Slice(tagsList, func(i, j int) bool { return tagsList[i].String() < tagsList[j].String() })

	for _, t := range tagsList {
		if t == base {
			continue
		}

		all = append(all, t)
	}

	c.matcher = language.NewMatcher(all)
	c.tags = all

	c.logger.Info().Int("locales", len(c.locales)).Str("base", base.String()).Msg("Loaded gettext catalogues")

	return c, nil
}
