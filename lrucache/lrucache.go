// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU)
cache of resolved text. Keys are strings. The cache evicts the least recently used
entry when it reaches capacity.

When created with compression enabled via [New], plain text may be stored in
zstd-compressed form and is transparently decompressed by [Cache.Get] and
[Cache.Peek]. Annotated text is stored as is.
*/
package lrucache

import (
	"container/list"
	"errors"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"codeberg.org/uitext/uitext/richtext"
)

// ErrInvalidSize is returned by [New] for a non-positive size.
var ErrInvalidSize = errors.New("lrucache: must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache of [richtext.Text]
// values that is safe for concurrent use. Instances must be constructed with
// [New]; the zero value is not ready for use.
type Cache struct {
	size      int                      // maximum number of entries
	evictList *list.List               // front is the most recently used entry
	items     map[string]*list.Element // key to element of evictList
	lock      sync.RWMutex

	compressEnabled bool
	zstdEnc         *zstd.Encoder // shared; EncodeAll is safe for concurrent use
	zstdDec         *zstd.Decoder // shared; DecodeAll is safe for concurrent use

	hits   uint64
	misses uint64
}

type entry struct {
	key        string
	text       richtext.Text // set unless compressed
	compressed []byte        // zstd frame of plain text
}

// Stats holds cache counters.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// New creates a cache holding at most size entries.
//
// If compress is true, plain text is stored compressed whenever this reduces
// its size.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:            size,
		evictList:       list.New(),
		items:           make(map[string]*list.Element),
		compressEnabled: compress,
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores t under key, making it the most recently used entry. If the
// cache is full, the least recently used entry is evicted. Add reports whether
// an eviction occurred.
func (c *Cache) Add(key string, t richtext.Text) bool {
	// Compress before taking the lock.
	e := c.prepare(key, t)

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value = e

		return false
	}

	c.items[key] = c.evictList.PushFront(e)

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get returns the text stored under key and marks it as most recently used.
func (c *Cache) Get(key string) (richtext.Text, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		c.lock.Unlock()

		return nil, false
	}

	c.hits++
	c.evictList.MoveToFront(el)
	e, _ := el.Value.(*entry)

	c.lock.Unlock()

	return c.load(e)
}

// Peek returns the text stored under key without changing the LRU order or
// the counters.
func (c *Cache) Peek(key string) (richtext.Text, bool) {
	c.lock.RLock()

	el, ok := c.items[key]
	if !ok {
		c.lock.RUnlock()
		return nil, false
	}

	e, _ := el.Value.(*entry)

	c.lock.RUnlock()

	return c.load(e)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}

	return false
}

// RemovePrefix deletes every key starting with prefix and returns how many
// entries were removed.
func (c *Cache) RemovePrefix(prefix string) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0

	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
			removed++
		}
	}

	return removed
}

// Keys returns every key from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, 0, len(c.items))

	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		if e, ok := el.Value.(*entry); ok {
			keys = append(keys, e.key)
		}
	}

	return keys
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return Stats{Len: c.evictList.Len(), Hits: c.hits, Misses: c.misses}
}

func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)

	if e, ok := el.Value.(*entry); ok {
		delete(c.items, e.key)
	}
}

// prepare builds the entry for t, compressing plain text when enabled and
// worthwhile.
func (c *Cache) prepare(key string, t richtext.Text) *entry {
	p, ok := t.(richtext.Plain)
	if !ok || !c.compressEnabled || len(p) == 0 {
		return &entry{key: key, text: t}
	}

	compressed := c.zstdEnc.EncodeAll([]byte(p), nil)
	if len(compressed) >= len(p) {
		return &entry{key: key, text: t}
	}

	return &entry{key: key, compressed: compressed}
}

// load returns the text held by e. A frame that fails to decode, which should
// not happen, is reported as a miss.
func (c *Cache) load(e *entry) (richtext.Text, bool) {
	if e == nil {
		return nil, false
	}

	if e.compressed == nil {
		return e.text, true
	}

	decoded, err := c.zstdDec.DecodeAll(e.compressed, nil)
	if err != nil {
		return nil, false
	}

	return richtext.Plain(decoded), true
}
