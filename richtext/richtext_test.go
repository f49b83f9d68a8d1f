// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/placeholder"
)

var (
	bold = annotation.Bold()
	red  = annotation.Color("red")
	link = annotation.URL("https://example.com")
)

func TestBuilderNesting(t *testing.T) {
	t.Parallel()

	var b Builder

	b.Append("a")
	b.With([]annotation.Annotation{bold, red}, func() {
		b.Append("bc")
		b.With([]annotation.Annotation{link}, func() {
			b.Append("d")
		})
	})
	b.Append("e")

	got := b.Build()

	assert.Equal(t, "abcde", got.String())
	assert.Equal(t, []Range{
		{Start: 1, End: 4, Annotation: bold},
		{Start: 1, End: 4, Annotation: red},
		{Start: 3, End: 4, Annotation: link},
	}, got.Ranges())
	assert.Equal(t, 0, b.Depth())
}

func TestBuilderBuildClosesOpenRanges(t *testing.T) {
	t.Parallel()

	var b Builder

	b.Push(bold)
	b.Append("open")

	got := b.Build()
	require.Equal(t, 1, got.NumRanges())
	assert.Equal(t, "open", got.Slice(got.Ranges()[0]))
	assert.Equal(t, 1, b.Depth(), "Build must not close ranges in the builder")
}

func TestBuilderPopWithoutPushPanics(t *testing.T) {
	t.Parallel()

	var b Builder

	assert.Panics(t, b.Pop)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("NoAnnotationFastPath", func(t *testing.T) {
		t.Parallel()

		got := Format(placeholder.Printf.Parse("Hello, %1$s!"), []Arg{{Value: Plain("Radu")}}, nil)

		assert.Equal(t, Plain("Hello, Radu!"), got)
		assert.False(t, IsAnnotated(got))
	})

	t.Run("ArgumentAnnotation", func(t *testing.T) {
		t.Parallel()

		got := Format(
			placeholder.Printf.Parse("Hello, %1$s!"),
			[]Arg{{Value: Plain("Radu"), Annotations: []annotation.Annotation{bold}}},
			nil,
		)

		a := AsAnnotated(got)
		require.True(t, IsAnnotated(got))
		assert.Equal(t, "Hello, Radu!", a.String())
		require.Equal(t, 1, a.NumRanges())
		assert.Equal(t, "Radu", a.Slice(a.Ranges()[0]))
		assert.Equal(t, bold, a.Ranges()[0].Annotation)
	})

	t.Run("BaseAnnotationsWrapEverythingInOrder", func(t *testing.T) {
		t.Parallel()

		got := AsAnnotated(Format(
			placeholder.Printf.Parse("x %s y"),
			[]Arg{{Value: Plain("v"), Annotations: []annotation.Annotation{link}}},
			[]annotation.Annotation{bold, red},
		))

		assert.Equal(t, []Range{
			{Start: 0, End: 5, Annotation: bold},
			{Start: 0, End: 5, Annotation: red},
			{Start: 2, End: 3, Annotation: link},
		}, got.Ranges())
	})

	t.Run("RepeatedArgumentIsAnnotatedAtEachOccurrence", func(t *testing.T) {
		t.Parallel()

		got := AsAnnotated(Format(
			placeholder.Printf.Parse("1: %%2$s 2: %s 3: %1$s 4: %%s 5: %3$s 6: %1$s"),
			[]Arg{
				{Value: Plain("a"), Annotations: []annotation.Annotation{red}},
				{Value: Plain("b")},
				{Value: Plain("c")},
			},
			nil,
		))

		var want Builder

		want.Append("1: %2$s 2: ")
		want.With([]annotation.Annotation{red}, func() { want.Append("a") })
		want.Append(" 3: ")
		want.With([]annotation.Annotation{red}, func() { want.Append("a") })
		want.Append(" 4: %s 5: c 6: ")
		want.With([]annotation.Annotation{red}, func() { want.Append("a") })

		assert.Equal(t, want.Build(), got)
	})

	t.Run("AnnotatedValueKeepsItsRanges", func(t *testing.T) {
		t.Parallel()

		inner := Styled("B", bold)
		got := AsAnnotated(Format(
			placeholder.Printf.Parse("[%s]"),
			[]Arg{{Value: inner, Annotations: []annotation.Annotation{red}}},
			nil,
		))

		assert.Equal(t, "[B]", got.String())
		assert.Equal(t, []Range{
			{Start: 1, End: 2, Annotation: red},
			{Start: 1, End: 2, Annotation: bold},
		}, got.Ranges())
	})

	t.Run("AnnotatedValueWithoutRangesStillProducesAnnotated", func(t *testing.T) {
		t.Parallel()

		got := Format(placeholder.Printf.Parse("%s"), []Arg{{Value: Annotated{text: "x"}}}, nil)

		assert.True(t, IsAnnotated(got))
		assert.Equal(t, "x", got.String())
	})

	t.Run("OutOfRangePanics", func(t *testing.T) {
		t.Parallel()

		tmpl := placeholder.Printf.Parse("%2$s")

		assert.Panics(t, func() { Format(tmpl, []Arg{{Value: Plain("a")}}, nil) })
		assert.Panics(t, func() {
			Format(tmpl, []Arg{{Value: Plain("a")}}, []annotation.Annotation{bold})
		})
	})
}

func TestConcat(t *testing.T) {
	t.Parallel()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, Plain(""), Concat())
	})

	t.Run("SinglePartPassesThrough", func(t *testing.T) {
		t.Parallel()

		part := Styled("x", bold)
		assert.Equal(t, Text(part), Concat(part))
	})

	t.Run("PlainOnly", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, Plain("A B C"), Concat(Plain("A "), Plain("B "), Plain("C")))
	})

	t.Run("AnnotationPreserving", func(t *testing.T) {
		t.Parallel()

		got := Concat(Plain("A "), Styled("B", bold))

		a := AsAnnotated(got)
		require.True(t, IsAnnotated(got))
		assert.Equal(t, "A B", a.String())
		assert.Equal(t, []Range{{Start: 2, End: 3, Annotation: bold}}, a.Ranges())
	})

	t.Run("OffsetsAccumulate", func(t *testing.T) {
		t.Parallel()

		got := AsAnnotated(Concat(Styled("ab", red), Plain("-"), Styled("cd", bold)))

		assert.Equal(t, []Range{
			{Start: 0, End: 2, Annotation: red},
			{Start: 3, End: 5, Annotation: bold},
		}, got.Ranges())
	})

	t.Run("TextMatchesPlainConcatenation", func(t *testing.T) {
		t.Parallel()

		parts := []Text{Plain("é"), Styled("ü", bold), Plain(""), Styled("", red)}

		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(p.String())
		}

		assert.Equal(t, sb.String(), Concat(parts...).String())
	})
}

type recorder struct {
	events []string
}

func (r *recorder) Enter(rg Range) { r.events = append(r.events, "<"+rg.Annotation.Kind().String()+">") }
func (r *recorder) Text(s string)  { r.events = append(r.events, s) }
func (r *recorder) Exit(rg Range)  { r.events = append(r.events, "</"+rg.Annotation.Kind().String()+">") }

func TestWalk(t *testing.T) {
	t.Parallel()

	var b Builder

	b.Append("a")
	b.With([]annotation.Annotation{bold}, func() {
		b.Append("b")
		b.With([]annotation.Annotation{link}, func() { b.Append("c") })
		b.With([]annotation.Annotation{red}, func() {})
		b.Append("d")
	})
	b.Append("e")

	t.Run("SkipEmpty", func(t *testing.T) {
		t.Parallel()

		var rec recorder

		Walk(b.Build(), &rec, true)
		assert.Equal(t, []string{"a", "<span>", "b", "<link>", "c", "</link>", "d", "</span>", "e"}, rec.events)
	})

	t.Run("KeepEmpty", func(t *testing.T) {
		t.Parallel()

		var rec recorder

		Walk(b.Build(), &rec, false)
		assert.Equal(t, []string{
			"a", "<span>", "b", "<link>", "c", "</link>", "<span>", "</span>", "d", "</span>", "e",
		}, rec.events)
	})

	t.Run("Plain", func(t *testing.T) {
		t.Parallel()

		var rec recorder

		Walk(Plain("plain"), &rec, true)
		assert.Equal(t, []string{"plain"}, rec.events)
	})
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	var b Builder

	b.Append("see ")
	b.With([]annotation.Annotation{link, bold}, func() {
		b.Append("docs")
	})

	data, err := json.Marshal(b.Build())
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "see docs", doc.Get("text").String())
	assert.Equal(t, int64(2), doc.Get("ranges.#").Int())
	assert.Equal(t, "link", doc.Get("ranges.0.kind").String())
	assert.Equal(t, "https://example.com", doc.Get("ranges.0.url").String())
	assert.False(t, doc.Get("ranges.0.style").Exists())
	assert.Equal(t, int64(4), doc.Get("ranges.1.start").Int())
	assert.Equal(t, int64(8), doc.Get("ranges.1.end").Int())
	assert.True(t, doc.Get("ranges.1.style.bold").Bool())

	data, err = json.Marshal(AsAnnotated(Plain("x")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"x","ranges":[]}`, string(data))
}
