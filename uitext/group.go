// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

var errPanicked = errors.New("uitext: resolution panicked")

// group is an errgroup that re-raises the first panic of its goroutines on
// the goroutine calling Wait, so argument errors behave the same in both
// modes.
type group struct {
	eg   *errgroup.Group
	once sync.Once
	rec  any
}

func newGroup(ctx context.Context) (*group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)

	return &group{eg: eg}, gctx
}

func (g *group) Go(fn func() error) {
	g.eg.Go(func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				g.once.Do(func() { g.rec = rec })

				err = errPanicked
			}
		}()

		return fn()
	})
}

func (g *group) Wait() error {
	err := g.eg.Wait()
	if g.rec != nil {
		panic(g.rec)
	}

	return err
}
