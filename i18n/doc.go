// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides a [uitext.Provider] backed by GNU gettext .po
catalogues. Format keys are source message IDs (msgids), the original
English UI text, as is usual with gettext.

# Quick start

	cat, err := i18n.Load(assets.FS, "po", i18n.Options{})
	r := uitext.NewResolver(cat)
	ctx = i18n.WithTag(ctx, language.French)
	s, err := r.String(ctx, uitext.New(func(b *uitext.Builder) {
		b.Format("Hello, %s!", uitext.Arg(name))
	}))

Format strings use the printf dialect ([placeholder.Printf]): "%s" for the
next argument, "%2$s" for a numbered one, "%%s" for a literal "%s".

A msgid can be disambiguated with a gettext context (msgctxt) by building the
key with [ContextKey].

# Missing translations

By default, a missing translation resolves to the msgid itself. When
StrictMissingKeys is enabled, lookups of missing msgids fail with
[ErrMissingKey] and are logged once per locale and key.
*/
package i18n
