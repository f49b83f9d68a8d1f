// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import (
	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/placeholder"
)

// Arg is a resolved argument: its text and the annotations wrapped around
// every occurrence of it.
type Arg struct {
	Value       Text
	Annotations []annotation.Annotation
}

// NeedsAnnotations reports whether formatting with args and base must produce
// an [Annotated] result: base is non-empty, an argument carries annotations, or
// an argument value is itself annotated.
func NeedsAnnotations(args []Arg, base []annotation.Annotation) bool {
	if len(base) > 0 {
		return true
	}

	for _, arg := range args {
		if len(arg.Annotations) > 0 || IsAnnotated(arg.Value) {
			return true
		}
	}

	return false
}

// Format substitutes args into tmpl.
//
// Without any annotation (see [NeedsAnnotations]) the result is [Plain]. Otherwise
// base annotations wrap the whole output, the first one outermost, and each token
// is replaced by its argument wrapped in the argument's own annotations. An
// argument referenced by several tokens is emitted and annotated at each of them;
// an argument no token references produces nothing.
//
// Format panics with a [*placeholder.IndexError] if a token references an
// argument outside args.
func Format(tmpl placeholder.Template, args []Arg, base []annotation.Annotation) Text {
	if !NeedsAnnotations(args, base) {
		values := make([]string, len(args))
		for i, arg := range args {
			if arg.Value != nil {
				values[i] = arg.Value.String()
			}
		}

		return Plain(tmpl.Substitute(values))
	}

	var b Builder

	b.With(base, func() {
		for i, segment := range tmpl.Segments {
			b.Append(segment)

			if i >= len(tmpl.Indices) {
				break
			}

			arg := args[tmpl.CheckIndex(i, len(args))]

			b.With(arg.Annotations, func() {
				b.AppendText(arg.Value)
			})
		}
	})

	return b.Build()
}
