// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for namespacing cache entries.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"sync/atomic"
	"time"
)

var counter atomic.Uint64

// Make makes an identifier from a 6 digit timestamp, 3 bytes of entropy and a
// process-wide sequence number, so two calls never return the same value
// within one process.
func Make() string {
	entropy := [3]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return maketime(time.Now()) +
		base64.RawURLEncoding.EncodeToString(entropy[:]) +
		strconv.FormatUint(counter.Add(1), 36)
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
