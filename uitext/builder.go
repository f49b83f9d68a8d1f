// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
)

// Builder collects nodes for [New]. The zero value is ready to use.
type Builder struct {
	nodes []Node
}

// New runs fn on a fresh [Builder] and returns the combined node.
func New(fn func(b *Builder)) Node {
	var b Builder

	fn(&b)

	return b.Build()
}

// Raw adds literal text.
func (b *Builder) Raw(text string) *Builder {
	b.nodes = append(b.nodes, NewRaw(text))
	return b
}

// RawText adds literal text that may carry annotations.
func (b *Builder) RawText(t richtext.Text) *Builder {
	b.nodes = append(b.nodes, NewRawText(t))
	return b
}

// Node adds an already built node.
func (b *Builder) Node(n Node) *Builder {
	b.nodes = append(b.nodes, n)
	return b
}

// Format adds a [Formatted] node for key.
func (b *Builder) Format(key string, opts ...FormatOption) *Builder {
	cfg := applyFormatOptions(opts)
	b.nodes = append(b.nodes, NewFormatted(key, cfg.args, cfg.annotations))

	return b
}

// Plural adds a [Pluralized] node for key and quantity. Unless an [Arg],
// [ArgNode] or [NoArgs] option is given, the quantity is the only argument.
func (b *Builder) Plural(key string, quantity int, opts ...FormatOption) *Builder {
	cfg := applyFormatOptions(opts)
	b.nodes = append(b.nodes, NewPluralized(key, quantity, cfg.args, cfg.annotations))

	return b
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Build combines the added nodes: no node yields empty [Raw] text, one node
// is returned as is, more become a [Compound].
func (b *Builder) Build() Node {
	switch len(b.nodes) {
	case 0:
		return NewRaw("")
	case 1:
		return b.nodes[0]
	default:
		return NewCompound(b.nodes...)
	}
}

// FormatOption configures a [Builder.Format] or [Builder.Plural] call.
type FormatOption func(*formatConfig)

type formatConfig struct {
	args        []Argument
	annotations []annotation.Annotation
}

func applyFormatOptions(opts []FormatOption) formatConfig {
	var cfg formatConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Arg appends an argument. value may be anything [Argument] accepts; the
// annotations wrap every occurrence of it, the first one outermost.
func Arg(value any, annotations ...annotation.Annotation) FormatOption {
	return func(cfg *formatConfig) {
		cfg.args = append(cfg.args, Argument{Value: value, Annotations: annotations})
	}
}

// ArgNode appends an argument built with the DSL.
func ArgNode(fn func(b *Builder), annotations ...annotation.Annotation) FormatOption {
	return Arg(New(fn), annotations...)
}

// NoArgs marks the argument list as explicit even when no [Arg] follows, so
// that [Builder.Plural] does not supply the quantity.
func NoArgs() FormatOption {
	return func(cfg *formatConfig) {
		if cfg.args == nil {
			cfg.args = []Argument{}
		}
	}
}

// Annotate appends base annotations wrapping the whole output of the node.
func Annotate(annotations ...annotation.Annotation) FormatOption {
	return func(cfg *formatConfig) {
		cfg.annotations = append(cfg.annotations, annotations...)
	}
}
