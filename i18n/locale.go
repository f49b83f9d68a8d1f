// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en"

// Languages returns the tags of the loaded catalogues, base locale included.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
func (c *Catalog) Languages() []language.Tag {
	out := slices.Clone(c.tags)

	slices.SortFunc(out, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	return out
}

// Base returns the base locale of the catalogue.
func (c *Catalog) Base() language.Tag {
	return c.base
}

// Match returns the loaded locale that best matches t. Und yields the base.
func (c *Catalog) Match(t language.Tag) language.Tag {
	if t == language.Und {
		return c.base
	}

	matched, _ := language.MatchStrings(c.matcher, t.String())

	return c.canonical(matched)
}

// canonical maps a tag returned by the matcher, which may carry extensions
// such as "-u-rg-..", to the loaded tag it stands for.
func (c *Catalog) canonical(t language.Tag) language.Tag {
	key := strippedTagString(t)
	if _, ok := c.locales[key]; ok {
		return language.Make(key)
	}

	// Matched the base locale without a catalogue of its own.
	return c.base
}
