// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package placeholder scans format strings for placeholder tokens.

A [Syntax] describes one token dialect. [Syntax.Parse] splits a format string
into literal segments and, for each token, the zero-based logical index of the
argument it references. The index is independent of where the token appears:

	Printf.Parse("1: %2$s 2: %1$s 3: %1$s")
	// Segments: ["1: ", " 2: ", " 3: ", ""]
	// Indices:  [1, 0, 0]

Three dialects are provided:

  - [Printf]: "%s" and "%N$s" (N is 1-based). Unnumbered tokens take sequential
    indices starting at 0. Escaped tokens ("%%s", "%%N$s") are not substituted
    and lose one leading '%' in the segments.
  - [PrintfNumbered]: "%N$s" only, no escaping.
  - [Braced]: "${N}" (N is 0-based), no unnumbered form, no escaping.

Anything that does not match the active dialect is literal text.
*/
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Syntax is a placeholder token dialect. The zero value is not usable; use one
// of [Printf], [PrintfNumbered] or [Braced].
type Syntax struct {
	name string

	// token matches one placeholder. Submatch 1, when present, holds the explicit number.
	token *regexp.Regexp

	// escaped matches an escaped token inside a literal segment. Nil disables escaping.
	escaped *regexp.Regexp

	// skipAfter rejects a token match preceded by this byte. Zero disables the check.
	skipAfter byte

	// base is subtracted from explicit numbers to obtain the logical index.
	base int

	// unnumbered allows tokens without an explicit number.
	unnumbered bool
}

var (
	// Printf is the numbered-or-unnumbered dialect with escaping.
	Printf = Syntax{
		name:       "printf",
		token:      regexp.MustCompile(`%(?:(\d+)\$)?s`),
		escaped:    regexp.MustCompile(`%%(?:\d+\$)?s`),
		skipAfter:  '%',
		base:       1,
		unnumbered: true,
	}

	// PrintfNumbered accepts only explicitly numbered "%N$s" tokens.
	PrintfNumbered = Syntax{
		name:  "printf-numbered",
		token: regexp.MustCompile(`%(\d+)\$s`),
		base:  1,
	}

	// Braced is the numbered-only "${N}" dialect.
	Braced = Syntax{
		name:  "braced",
		token: regexp.MustCompile(`\$\{(\d+)\}`),
		base:  0,
	}
)

// ByName returns the syntax registered under name.
func ByName(name string) (Syntax, bool) {
	switch strings.ToLower(name) {
	case Printf.name:
		return Printf, true
	case PrintfNumbered.name:
		return PrintfNumbered, true
	case Braced.name:
		return Braced, true
	default:
		return Syntax{}, false
	}
}

// Name returns the dialect name, for example "printf".
func (s Syntax) Name() string {
	return s.name
}

func (s Syntax) String() string {
	return s.name
}

// IsZero reports whether s is the unusable zero value.
func (s Syntax) IsZero() bool {
	return s.token == nil
}

// Template is the result of scanning a format string.
//
// Segments always holds exactly one more element than Indices: the literal text
// before the first token, between tokens, and after the last token. Indices[i] is
// the logical argument index of the token between Segments[i] and Segments[i+1].
type Template struct {
	Segments []string
	Indices  []int
}

// Parse scans format for tokens of syntax s.
func (s Syntax) Parse(format string) Template {
	if s.IsZero() {
		panic("placeholder: Parse called on zero Syntax")
	}

	matches := s.token.FindAllStringSubmatchIndex(format, -1)

	tmpl := Template{
		Segments: make([]string, 0, len(matches)+1),
		Indices:  make([]int, 0, len(matches)),
	}

	unnumbered := 0
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]

		// A token cannot contain the skip byte after its first character,
		// so rejecting a match here never hides a valid later one.
		if s.skipAfter != 0 && start > 0 && format[start-1] == s.skipAfter {
			continue
		}

		var index int

		switch {
		case m[2] >= 0:
			n, err := strconv.Atoi(format[m[2]:m[3]])
			if err != nil {
				// Only reachable for numbers that overflow int; treat as literal.
				continue
			}

			index = n - s.base
		case s.unnumbered:
			index = unnumbered
			unnumbered++
		default:
			continue
		}

		tmpl.Segments = append(tmpl.Segments, s.unescape(format[last:start]))
		tmpl.Indices = append(tmpl.Indices, index)
		last = end
	}

	tmpl.Segments = append(tmpl.Segments, s.unescape(format[last:]))

	return tmpl
}

// unescape strips one leading '%' from every escaped token in segment.
func (s Syntax) unescape(segment string) string {
	if s.escaped == nil || !strings.Contains(segment, "%%") {
		return segment
	}

	return s.escaped.ReplaceAllStringFunc(segment, func(match string) string {
		return match[1:]
	})
}

// Tokens returns the number of tokens found.
func (t Template) Tokens() int {
	return len(t.Indices)
}

// MaxIndex returns the largest logical index referenced, or -1 if there are no tokens.
func (t Template) MaxIndex() int {
	highest := -1

	for _, i := range t.Indices {
		if i > highest {
			highest = i
		}
	}

	return highest
}

// Substitute joins the segments, replacing every token with args[index].
//
// It panics if a token references an index outside args: that is a mismatch
// between the format string and the call site, not a runtime condition.
func (t Template) Substitute(args []string) string {
	var sb strings.Builder

	for i, segment := range t.Segments {
		sb.WriteString(segment)

		if i < len(t.Indices) {
			sb.WriteString(args[t.CheckIndex(i, len(args))])
		}
	}

	return sb.String()
}

// CheckIndex returns the logical index of token i, panicking with an
// [*IndexError] if it does not address one of count arguments.
func (t Template) CheckIndex(i, count int) int {
	index := t.Indices[i]
	if index < 0 || index >= count {
		panic(&IndexError{Token: i, Index: index, Count: count})
	}

	return index
}

// IndexError is the panic value raised when a token references an argument
// that was not supplied.
type IndexError struct {
	Token int // position of the token in the format string, in scan order
	Index int // logical argument index the token references
	Count int // number of arguments supplied
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("placeholder: token %d references argument %d, but %d argument(s) were supplied",
		e.Token, e.Index, e.Count)
}
