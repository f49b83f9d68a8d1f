// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"context"

	"codeberg.org/uitext/uitext/richtext"
)

// Future is the pending result of [Resolver.ResolveAsync].
type Future struct {
	done chan struct{}
	text richtext.Text
	err  error
	rec  any
}

// ResolveAsync starts resolving n on a new goroutine and returns immediately.
// Cancelling ctx is passed on to the provider; a cancelled resolution yields
// the provider's error and no text.
func (r *Resolver) ResolveAsync(ctx context.Context, n Node) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() { f.rec = recover() }()

		t, err := r.resolve(ctx, n)
		if err != nil {
			f.err = err
			return
		}

		f.text = t
	}()

	return f
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done. If ctx ends
// first, Wait returns ctx.Err() and the resolution keeps running; a later
// Wait can still collect it. A panic raised while resolving, such as an
// [ArgumentError], is raised again by Wait.
func (f *Future) Wait(ctx context.Context) (richtext.Text, error) {
	select {
	case <-f.done:
		if f.rec != nil {
			panic(f.rec)
		}

		return f.text, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
