// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"fmt"
	"slices"
	"strconv"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
)

// Node is one of [Raw], [Formatted], [Pluralized] or [Compound].
type Node interface {
	isNode()
}

// Argument is a value substituted into a format string together with the
// annotations wrapped around each of its occurrences.
//
// Value may be a string, a [richtext.Text], a [Node] (resolved with the same
// resolver), a [fmt.Stringer], or any other value, which is formatted with
// [fmt.Sprint].
type Argument struct {
	Value       any
	Annotations []annotation.Annotation
}

// Raw is literal text. It is never scanned for placeholders.
type Raw struct {
	text richtext.Text
}

// Formatted looks up a format string by key and substitutes its arguments.
type Formatted struct {
	key         string
	args        []Argument
	annotations []annotation.Annotation
}

// Pluralized looks up a format string by key and quantity and substitutes its
// arguments.
type Pluralized struct {
	key         string
	quantity    int
	args        []Argument
	explicit    bool
	annotations []annotation.Annotation
}

// Compound concatenates the output of its children in order.
type Compound struct {
	children []Node
}

func (Raw) isNode()        {}
func (Formatted) isNode()  {}
func (Pluralized) isNode() {}
func (Compound) isNode()   {}

// NewRaw returns a node producing text unchanged.
func NewRaw(text string) Raw {
	return Raw{text: richtext.Plain(text)}
}

// NewRawText returns a node producing t unchanged, annotations included.
func NewRawText(t richtext.Text) Raw {
	if t == nil {
		t = richtext.Plain("")
	}

	return Raw{text: t}
}

// NewFormatted returns a node resolving key through [Provider.FormatString].
// The slices are copied.
func NewFormatted(key string, args []Argument, annotations []annotation.Annotation) Formatted {
	return Formatted{
		key:         key,
		args:        cloneArgs(args),
		annotations: annotation.Clone(annotations),
	}
}

// NewPluralized returns a node resolving key and quantity through
// [Provider.PluralFormatString]. The slices are copied.
//
// A nil args slice means no explicit argument list: the quantity in decimal is
// then supplied as the only argument. A non-nil slice, even an empty one, is
// used as is.
func NewPluralized(key string, quantity int, args []Argument, annotations []annotation.Annotation) Pluralized {
	return Pluralized{
		key:         key,
		quantity:    quantity,
		args:        cloneArgs(args),
		explicit:    args != nil,
		annotations: annotation.Clone(annotations),
	}
}

// NewCompound returns a node concatenating children. The slice is copied.
func NewCompound(children ...Node) Compound {
	return Compound{children: slices.Clone(children)}
}

// Text returns the literal text of r.
func (r Raw) Text() richtext.Text {
	if r.text == nil {
		return richtext.Plain("")
	}

	return r.text
}

// Key returns the format key.
func (f Formatted) Key() string { return f.key }

// Args returns a copy of the arguments.
func (f Formatted) Args() []Argument { return cloneArgs(f.args) }

// Annotations returns a copy of the base annotations.
func (f Formatted) Annotations() []annotation.Annotation { return annotation.Clone(f.annotations) }

// Key returns the format key.
func (p Pluralized) Key() string { return p.key }

// Quantity returns the quantity used to select the plural form.
func (p Pluralized) Quantity() int { return p.quantity }

// Args returns a copy of the arguments, including the default quantity
// argument when no explicit list was given.
func (p Pluralized) Args() []Argument { return cloneArgs(p.arguments()) }

// Annotations returns a copy of the base annotations.
func (p Pluralized) Annotations() []annotation.Annotation { return annotation.Clone(p.annotations) }

func (p Pluralized) arguments() []Argument {
	if p.explicit {
		return p.args
	}

	return []Argument{{Value: strconv.Itoa(p.quantity)}}
}

// Children returns a copy of the child nodes.
func (c Compound) Children() []Node { return slices.Clone(c.children) }

func cloneArgs(args []Argument) []Argument {
	if args == nil {
		return nil
	}

	out := make([]Argument, len(args))
	for i, a := range args {
		out[i] = Argument{Value: a.Value, Annotations: annotation.Clone(a.Annotations)}
	}

	return out
}

// scalarText converts an argument value that is not a node to text.
func scalarText(v any) richtext.Text {
	switch v := v.(type) {
	case nil:
		return richtext.Plain("")
	case richtext.Text:
		return v
	case string:
		return richtext.Plain(v)
	case fmt.Stringer:
		return richtext.Plain(v.String())
	case int:
		return richtext.Plain(strconv.Itoa(v))
	default:
		return richtext.Plain(fmt.Sprint(v))
	}
}
