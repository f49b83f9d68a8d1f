// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// logMissingOnce logs a missing translation warning once per (locale, msgid)
// pair.
func (c *Catalog) logMissingOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := c.missing.LoadOrStore(id, struct{}{}); !loaded {
		c.logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

// ContextKey builds a format key for msgid under the gettext context
// contextKey, similar to gettext's pgettext. An empty contextKey returns msgid.
func ContextKey(contextKey, msgid string) string {
	if contextKey != "" {
		return contextKey + gotext.EotSeparator + msgid
	}

	return msgid
}

// splitKey is the inverse of [ContextKey].
func splitKey(key string) (contextKey, msgid string) {
	if ctxKey, id, ok := strings.Cut(key, gotext.EotSeparator); ok {
		return ctxKey, id
	}

	return "", key
}
