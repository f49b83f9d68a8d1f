// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintfParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		segments []string
		indices  []int
	}{
		{
			name:     "no tokens",
			format:   "Just text",
			segments: []string{"Just text"},
			indices:  []int{},
		},
		{
			name:     "unnumbered tokens are sequential",
			format:   "%s and %s",
			segments: []string{"", " and ", ""},
			indices:  []int{0, 1},
		},
		{
			name:     "numbered tokens reuse arguments",
			format:   "1: %2$s 2: %1$s 3: %1$s",
			segments: []string{"1: ", " 2: ", " 3: ", ""},
			indices:  []int{1, 0, 0},
		},
		{
			name:     "mixed tokens count unnumbered separately",
			format:   "%2$s %s %1$s %s",
			segments: []string{"", " ", " ", " ", ""},
			indices:  []int{1, 0, 0, 1},
		},
		{
			name:     "escaped tokens collapse to their literal form",
			format:   "1: %%2$s 2: %s 3: %1$s 4: %%s 5: %3$s 6: %1$s",
			segments: []string{"1: %2$s 2: ", " 3: ", " 4: %s 5: ", " 6: ", ""},
			indices:  []int{0, 0, 2, 0},
		},
		{
			name:     "other verbs are literal",
			format:   "%d%% done, %x",
			segments: []string{"%d%% done, %x"},
			indices:  []int{},
		},
		{
			name:     "triple percent keeps original behaviour",
			format:   "%%%s",
			segments: []string{"%%s"},
			indices:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl := Printf.Parse(tt.format)

			assert.Equal(t, tt.segments, tmpl.Segments)
			assert.Equal(t, tt.indices, tmpl.Indices)
			assert.Len(t, tmpl.Segments, tmpl.Tokens()+1)
		})
	}
}

func TestPrintfNumberedParse(t *testing.T) {
	t.Parallel()

	tmpl := PrintfNumbered.Parse("%s then %2$s then %%1$s")

	// No escaping: "%%1$s" still holds a numbered token after the first '%'.
	assert.Equal(t, []string{"%s then ", " then %", ""}, tmpl.Segments)
	assert.Equal(t, []int{1, 0}, tmpl.Indices)
}

func TestBracedParse(t *testing.T) {
	t.Parallel()

	tmpl := Braced.Parse("${1} before ${0}, not $1 or ${x} or %s")

	assert.Equal(t, []string{"", " before ", ", not $1 or ${x} or %s"}, tmpl.Segments)
	assert.Equal(t, []int{1, 0}, tmpl.Indices)
	assert.Equal(t, "b before a, not $1 or ${x} or %s", tmpl.Substitute([]string{"a", "b"}))
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	t.Run("ArgumentReuse", func(t *testing.T) {
		t.Parallel()

		got := Printf.Parse("1: %2$s 2: %1$s 3: %1$s").Substitute([]string{"a", "b"})
		assert.Equal(t, "1: b 2: a 3: a", got)
	})

	t.Run("EscapePreservation", func(t *testing.T) {
		t.Parallel()

		got := Printf.Parse("1: %%2$s 2: %s 3: %1$s").Substitute([]string{"a", "b"})
		assert.Equal(t, "1: %2$s 2: a 3: a", got)
	})

	t.Run("SkippedArgumentsAreNotAnError", func(t *testing.T) {
		t.Parallel()

		got := Printf.Parse("only %3$s").Substitute([]string{"a", "b", "c"})
		assert.Equal(t, "only c", got)
	})

	t.Run("OutOfRangePanics", func(t *testing.T) {
		t.Parallel()

		tmpl := Printf.Parse("%1$s and %2$s")

		assert.PanicsWithError(t,
			"placeholder: token 1 references argument 1, but 1 argument(s) were supplied",
			func() { tmpl.Substitute([]string{"a"}) })
	})

	t.Run("ZeroNumberPanics", func(t *testing.T) {
		t.Parallel()

		tmpl := Printf.Parse("%0$s")

		assert.Panics(t, func() { tmpl.Substitute([]string{"a"}) })
	})
}

func TestMaxIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, Printf.Parse("none").MaxIndex())
	assert.Equal(t, 4, Printf.Parse("%5$s %s").MaxIndex())
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, s := range []Syntax{Printf, PrintfNumbered, Braced} {
		got, ok := ByName(s.Name())
		require.True(t, ok, s.Name())
		assert.Equal(t, s.Name(), got.Name())
	}

	_, ok := ByName("icu")
	assert.False(t, ok)
}

func TestZeroSyntaxPanics(t *testing.T) {
	t.Parallel()

	var s Syntax

	assert.True(t, s.IsZero())
	assert.Panics(t, func() { s.Parse("%s") })
}
