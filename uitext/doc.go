// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package uitext builds localized, styled text from template node trees.

A tree is assembled with the builder DSL:

	greeting := uitext.New(func(b *uitext.Builder) {
		b.Format("greeting",
			uitext.Arg("Radu", annotation.Bold()),
		)
		b.Raw(" ")
		b.Plural("unread_messages", 5)
	})

and resolved against a [Provider], which turns format keys (and quantities for
plural keys) into raw format strings for the active locale:

	r := uitext.NewResolver(catalog)
	s, err := r.String(ctx, greeting)          // plain text
	a, err := r.Annotated(ctx, greeting)       // text with style and link ranges

# Nodes

There are four node kinds: [Raw] literal text, [Formatted] and [Pluralized]
nodes that look up a format string and substitute arguments into it, and
[Compound] nodes that concatenate their children. Nodes are immutable and hold
no render state, so one tree may be resolved any number of times, from any
number of goroutines.

# Modes

In [Sync] mode every lookup runs on the calling goroutine in tree order. In
[Async] mode the children of a compound node and nested node arguments are
resolved concurrently and reassembled in their original order. Both modes
produce identical output.

# Errors

Errors returned by the provider reach the caller of Resolve unchanged. A token
that references a missing argument is a bug at the call site and panics with a
*placeholder.IndexError.

# Caching

Resolution never caches. [Memo] caches the output of one node keyed by a
caller-supplied value such as the active locale.
*/
package uitext
