// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import "strings"

// Concat joins parts in order.
//
// An empty list yields empty [Plain] text and a single part is returned as is.
// If no part is [Annotated] the result is [Plain]; otherwise every part is
// appended to one [Annotated] value with its ranges moved to their final offsets.
func Concat(parts ...Text) Text {
	switch len(parts) {
	case 0:
		return Plain("")
	case 1:
		if parts[0] == nil {
			return Plain("")
		}

		return parts[0]
	}

	annotated := false
	size := 0

	for _, p := range parts {
		if p == nil {
			continue
		}

		size += p.Len()

		if IsAnnotated(p) {
			annotated = true
		}
	}

	if !annotated {
		var sb strings.Builder

		sb.Grow(size)

		for _, p := range parts {
			if p != nil {
				sb.WriteString(p.String())
			}
		}

		return Plain(sb.String())
	}

	var b Builder

	b.sb.Grow(size)

	for _, p := range parts {
		b.AppendText(p)
	}

	return b.Build()
}
