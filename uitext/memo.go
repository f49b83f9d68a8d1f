// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"codeberg.org/uitext/uitext/idgen"
	"codeberg.org/uitext/uitext/lrucache"
	"codeberg.org/uitext/uitext/richtext"
)

// KeyFunc derives the cache key of a resolution, usually the active locale.
type KeyFunc func(ctx context.Context) string

// Memo caches the output of one node. Outputs are cached per key, so a memo
// shared across locales keeps one entry per locale. Several memos may share a
// cache; each one namespaces its entries with a unique id.
type Memo struct {
	id       string
	resolver *Resolver
	node     Node
	cache    *lrucache.Cache
	key      KeyFunc
	group    singleflight.Group

	// gen counts invalidations. Resolutions started under an older
	// generation are not cached and are not shared with newer callers.
	mu  sync.Mutex
	gen uint64
}

// NewMemo returns a memo of n. A nil key caches a single output.
func NewMemo(r *Resolver, n Node, cache *lrucache.Cache, key KeyFunc) *Memo {
	if key == nil {
		key = func(context.Context) string { return "" }
	}

	return &Memo{
		id:       idgen.Make() + ":",
		resolver: r,
		node:     n,
		cache:    cache,
		key:      key,
	}
}

// Node returns the memoized node.
func (m *Memo) Node() Node {
	return m.node
}

// Resolve returns the cached output for the key of ctx, resolving the node on
// a miss. Concurrent misses for the same key share one resolution. Errors are
// not cached.
func (m *Memo) Resolve(ctx context.Context) (richtext.Text, error) {
	cacheKey := m.id + m.key(ctx)

	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	if t, ok := m.cache.Get(cacheKey); ok {
		return t, nil
	}

	flightKey := cacheKey + "\x00" + strconv.FormatUint(gen, 10)

	v, err, _ := m.group.Do(flightKey, func() (any, error) {
		t, err := m.resolver.Resolve(ctx, m.node)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.gen == gen {
			m.cache.Add(cacheKey, t)
		}
		m.mu.Unlock()

		return t, nil
	})
	if err != nil {
		return nil, err
	}

	t, _ := v.(richtext.Text)

	return t, nil
}

// Cached reports whether the output for the key of ctx is cached, without
// touching its recency.
func (m *Memo) Cached(ctx context.Context) bool {
	_, ok := m.cache.Peek(m.id + m.key(ctx))

	return ok
}

// Invalidate drops every cached output of the memo. Resolutions in flight
// when it is called still return to their callers but are not cached.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.cache.RemovePrefix(m.id)
}
