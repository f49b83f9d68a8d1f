// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
	"codeberg.org/uitext/uitext/uitext"
)

const sample = `
- raw: "Hi. "
- format: greeting
  annotations: [{span: {bold: true}}]
  args:
    - text: Radu
      annotations: [{span: {color: "#cc0000"}}]
    - nodes: [{plural: items, quantity: 3}]
- plural: items
  quantity: 1
  noargs: true
- raw: home
  annotations: [{link: {url: "https://example.org", style: {underline: true}}}]
`

var formats = map[string]string{
	"greeting":    "Hello, %1$s (%2$s)",
	"items#one":   "one item",
	"items#other": "%s items",
}

func resolver() *uitext.Resolver {
	return uitext.NewResolver(uitext.ProviderFuncs{
		Format: func(_ context.Context, key string) (string, error) {
			return formats[key], nil
		},
		Plural: func(_ context.Context, key string, n int) (string, error) {
			if n == 1 {
				return formats[key+"#one"], nil
			}

			return formats[key+"#other"], nil
		},
	})
}

func TestParseAndResolve(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, doc, 4)

	got, err := resolver().Annotated(t.Context(), doc.Node())
	require.NoError(t, err)
	assert.Equal(t, "Hi. Hello, Radu (3 items)one itemhome", got.String())

	ranges := got.Ranges()
	require.Len(t, ranges, 3)

	assert.Equal(t, annotation.Bold(), ranges[0].Annotation)
	assert.Equal(t, "Hello, Radu (3 items)", got.Slice(ranges[0]))

	assert.Equal(t, annotation.Color("#cc0000"), ranges[1].Annotation)
	assert.Equal(t, "Radu", got.Slice(ranges[1]))

	assert.Equal(t, annotation.Link{URL: "https://example.org", Style: annotation.SpanStyle{Underline: true}}, ranges[2].Annotation)
	assert.Equal(t, "home", got.Slice(ranges[2]))
}

func TestNode(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`[{raw: "only"}]`))
	require.NoError(t, err)
	assert.Equal(t, uitext.NewRaw("only"), doc.Node())

	empty, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, uitext.NewRaw(""), empty.Node())

	styled, err := Parse([]byte(`[{raw: "b", annotations: [{span: {bold: true}}]}]`))
	require.NoError(t, err)
	assert.Equal(t, uitext.NewRawText(richtext.Styled("b", annotation.Bold())), styled.Node())
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		path string
	}{
		{"NoKind", `[{quantity: 2}]`, "entry [0]"},
		{"TwoKinds", `[{raw: a, format: b}]`, "entry [0]"},
		{"RawWithArgs", `[{raw: a, args: [{text: x}]}]`, "entry [0]"},
		{"QuantityWithoutPlural", `[{format: a, quantity: 2}]`, "entry [0]"},
		{"NoArgsWithArgs", `[{plural: a, noargs: true, args: [{text: x}]}]`, "entry [0]"},
		{"ArgWithBoth", `[{raw: x}, {format: a, args: [{text: x, nodes: [{raw: y}]}]}]`, "entry [1].args[0]"},
		{"ArgWithNeither", `[{format: a, args: [{}]}]`, "entry [0].args[0]"},
		{"NestedPath", `[{format: a, args: [{nodes: [{raw: y}, {}]}]}]`, "entry [0].args[0].nodes[1]"},
		{"AnnotationKinds", `[{raw: a, annotations: [{}]}]`, "entry [0].annotations[0]"},
		{"BadAlign", `[{raw: a, annotations: [{paragraph: {align: diagonal}}]}]`, "entry [0].annotations[0]"},
		{"EmptyLink", `[{raw: a, annotations: [{link: {}}]}]`, "entry [0].annotations[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.path)
		})
	}

	_, err := Parse([]byte(`[{raw: a, colour: red}]`))
	require.ErrorIs(t, err, ErrInvalid, "unknown fields are rejected")
}

func TestKeys(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting", "items"}, doc.Keys())
	assert.Equal(t, []string{"items"}, doc.PluralKeys())
}

func TestSet(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"examples.yaml": {Data: []byte(`
zeta:
  - raw: last letter
alpha:
  - format: greeting
    args: [{text: a}, {text: b}]
`)},
		"broken.yaml": {Data: []byte(`
ok:
  - raw: fine
bad:
  - {}
`)},
	}

	s, err := ReadSet(fsys, "examples.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, s.Names())
	assert.Equal(t, []string{"greeting"}, s.Keys())
	assert.Empty(t, s.PluralKeys())

	doc, ok := s.Get("alpha")
	require.True(t, ok)

	got, err := resolver().String(t.Context(), doc.Node())
	require.NoError(t, err)
	assert.Equal(t, "Hello, a (b)", got)

	_, err = ReadSet(fsys, "broken.yaml")
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "bad[0]")

	_, err = ReadFile(fsys, "missing.yaml")
	require.Error(t, err)
}
