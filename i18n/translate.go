// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"

	"codeberg.org/uitext/uitext/placeholder"
)

// ErrMissingKey is returned in strict mode for msgids that neither the
// requested locale nor the base locale translates.
var ErrMissingKey = errors.New("i18n: missing translation")

// Syntax reports the printf placeholder dialect used by gettext catalogues.
func (c *Catalog) Syntax() placeholder.Syntax {
	return placeholder.Printf
}

// FormatString returns the translation of key for the locale in ctx.
func (c *Catalog) FormatString(ctx context.Context, key string) (string, error) {
	return c.translate(ctx, key, 0, false)
}

// PluralFormatString returns the plural form of key selected for quantity by
// the plural rule of the locale in ctx. Without a translation, key is used for
// every quantity.
func (c *Catalog) PluralFormatString(ctx context.Context, key string, quantity int) (string, error) {
	return c.translate(ctx, key, quantity, true)
}

// Lookup is a convenience around [Catalog.FormatString] for a fixed tag.
func (c *Catalog) Lookup(t language.Tag, key string) (string, error) {
	return c.translate(WithTag(context.Background(), t), key, 0, false)
}

func (c *Catalog) translate(ctx context.Context, key string, n int, pluralMode bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	contextKey, msgid := splitKey(key)
	matched := c.Match(TagFrom(ctx))

	for _, t := range c.chain(matched) {
		if s, ok := c.lookup(c.locales[t.String()], contextKey, msgid, n, pluralMode); ok {
			return s, nil
		}
	}

	if c.strict {
		c.logMissingOnce(matched.String(), key)

		return "", fmt.Errorf("%w: %q for locale %s", ErrMissingKey, msgid, matched)
	}

	return msgid, nil
}

// chain lists the locales consulted for matched: itself, then the base.
func (c *Catalog) chain(matched language.Tag) []language.Tag {
	if matched == c.base {
		return []language.Tag{matched}
	}

	return []language.Tag{matched, c.base}
}

func (c *Catalog) lookup(loc *gotext.Locale, contextKey, msgid string, n int, pluralMode bool) (string, bool) {
	if loc == nil {
		return "", false
	}

	switch {
	case pluralMode && contextKey != "":
		if loc.IsTranslatedNDC(c.domain, msgid, n, contextKey) {
			return loc.GetNDC(c.domain, msgid, msgid, n, contextKey), true
		}
	case pluralMode:
		if loc.IsTranslatedND(c.domain, msgid, n) {
			return loc.GetND(c.domain, msgid, msgid, n), true
		}
	case contextKey != "":
		if loc.IsTranslatedNDC(c.domain, msgid, 1, contextKey) {
			return loc.GetDC(c.domain, msgid, contextKey), true
		}
	default:
		// IsTranslatedD asks about the form of n=0, which is the plural
		// form in locales like en. Singular entries only carry form 0.
		if loc.IsTranslatedND(c.domain, msgid, 1) {
			// No vars: gotext returns msgid's translation verbatim, never formatted.
			return loc.GetD(c.domain, msgid, []any(nil)...), true
		}
	}

	return "", false
}
