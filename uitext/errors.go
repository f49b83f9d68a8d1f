// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"errors"
	"fmt"

	"codeberg.org/uitext/uitext/placeholder"
)

// ErrInvalidMode is returned by [ParseMode] for unknown mode names.
var ErrInvalidMode = errors.New("uitext: invalid mode")

// ArgumentError is the panic value raised when a format string references an
// argument the node does not supply.
type ArgumentError struct {
	Key    string
	Format string
	Err    *placeholder.IndexError
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("uitext: key %q with format %q: %v", e.Key, e.Format, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
