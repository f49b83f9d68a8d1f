// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"context"

	"codeberg.org/uitext/uitext/placeholder"
)

// Provider resolves format keys to raw format strings for the locale carried
// by ctx. Selecting the plural form for a quantity is the provider's job.
//
// Implementations must be safe for concurrent use when the resolver runs in
// [Async] mode.
type Provider interface {
	FormatString(ctx context.Context, key string) (string, error)
	PluralFormatString(ctx context.Context, key string, quantity int) (string, error)
}

// SyntaxProvider is implemented by providers whose format strings use a
// specific placeholder dialect. Resolvers default to it unless [WithSyntax]
// says otherwise.
type SyntaxProvider interface {
	Syntax() placeholder.Syntax
}

// ProviderFuncs adapts two functions to a [Provider]. A nil Plural falls back
// to Format, ignoring the quantity.
type ProviderFuncs struct {
	Format func(ctx context.Context, key string) (string, error)
	Plural func(ctx context.Context, key string, quantity int) (string, error)
}

func (p ProviderFuncs) FormatString(ctx context.Context, key string) (string, error) {
	return p.Format(ctx, key)
}

func (p ProviderFuncs) PluralFormatString(ctx context.Context, key string, quantity int) (string, error) {
	if p.Plural == nil {
		return p.Format(ctx, key)
	}

	return p.Plural(ctx, key, quantity)
}
