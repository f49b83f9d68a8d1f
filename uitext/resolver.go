// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package uitext

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/placeholder"
	"codeberg.org/uitext/uitext/richtext"
)

// Mode selects how a [Resolver] schedules lookups.
type Mode int

const (
	// Sync resolves every node on the calling goroutine in tree order.
	Sync Mode = iota
	// Async resolves compound children and node arguments concurrently.
	Async
)

func (m Mode) String() string {
	if m == Async {
		return "async"
	}

	return "sync"
}

// ParseMode parses "sync" or "async".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sync", "":
		return Sync, nil
	case "async":
		return Async, nil
	default:
		return Sync, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithSyntax sets the placeholder dialect of the provider's format strings.
func WithSyntax(s placeholder.Syntax) Option {
	return func(r *Resolver) { r.syntax = s }
}

// WithMode sets the scheduling mode.
func WithMode(m Mode) Option {
	return func(r *Resolver) { r.mode = m }
}

// WithLogger sets the logger used for trace output.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// Resolver turns nodes into text using a [Provider]. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	provider Provider
	syntax   placeholder.Syntax
	mode     Mode
	logger   zerolog.Logger
}

// NewResolver returns a resolver for p. The syntax defaults to the one p
// declares through [SyntaxProvider], or [placeholder.Printf].
func NewResolver(p Provider, opts ...Option) *Resolver {
	if p == nil {
		panic("uitext: NewResolver called with nil Provider")
	}

	r := &Resolver{
		provider: p,
		syntax:   placeholder.Printf,
		logger:   zerolog.Nop(),
	}

	if sp, ok := p.(SyntaxProvider); ok {
		r.syntax = sp.Syntax()
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Syntax returns the placeholder dialect in use.
func (r *Resolver) Syntax() placeholder.Syntax { return r.syntax }

// Mode returns the scheduling mode.
func (r *Resolver) Mode() Mode { return r.mode }

// Resolve returns the output of n: [richtext.Plain] when nothing in the tree
// carries annotations, [richtext.Annotated] otherwise.
func (r *Resolver) Resolve(ctx context.Context, n Node) (richtext.Text, error) {
	return r.resolve(ctx, n)
}

// String returns the characters of n's output, dropping annotations.
func (r *Resolver) String(ctx context.Context, n Node) (string, error) {
	t, err := r.resolve(ctx, n)
	if err != nil {
		return "", err
	}

	return t.String(), nil
}

// Annotated returns n's output as annotated text. Plain output becomes
// annotated text without ranges.
func (r *Resolver) Annotated(ctx context.Context, n Node) (richtext.Annotated, error) {
	t, err := r.resolve(ctx, n)
	if err != nil {
		return richtext.Annotated{}, err
	}

	return richtext.AsAnnotated(t), nil
}

func (r *Resolver) resolve(ctx context.Context, n Node) (richtext.Text, error) {
	switch n := n.(type) {
	case Raw:
		return n.Text(), nil
	case *Raw:
		return n.Text(), nil
	case Formatted:
		return r.resolveFormatted(ctx, n)
	case *Formatted:
		return r.resolveFormatted(ctx, *n)
	case Pluralized:
		return r.resolvePluralized(ctx, n)
	case *Pluralized:
		return r.resolvePluralized(ctx, *n)
	case Compound:
		return r.resolveCompound(ctx, n.children)
	case *Compound:
		return r.resolveCompound(ctx, n.children)
	case nil:
		panic("uitext: resolving nil Node")
	default:
		panic(fmt.Sprintf("uitext: unknown Node type %T", n))
	}
}

func (r *Resolver) resolveFormatted(ctx context.Context, n Formatted) (richtext.Text, error) {
	lookup := func(ctx context.Context) (string, error) {
		return r.provider.FormatString(ctx, n.key)
	}

	return r.substitute(ctx, n.key, lookup, n.args, n.annotations)
}

func (r *Resolver) resolvePluralized(ctx context.Context, n Pluralized) (richtext.Text, error) {
	lookup := func(ctx context.Context) (string, error) {
		return r.provider.PluralFormatString(ctx, n.key, n.quantity)
	}

	return r.substitute(ctx, n.key, lookup, n.arguments(), n.annotations)
}

// substitute looks up the format string and substitutes resolved arguments.
// Without arguments and annotations the format string is returned untouched,
// so '%' sequences the caller never meant as placeholders survive.
func (r *Resolver) substitute(
	ctx context.Context,
	key string,
	lookup func(context.Context) (string, error),
	args []Argument,
	base []annotation.Annotation,
) (richtext.Text, error) {
	if len(args) == 0 && len(base) == 0 {
		format, err := lookup(ctx)
		if err != nil {
			return nil, err
		}

		return richtext.Plain(format), nil
	}

	var (
		format   string
		resolved []richtext.Arg
		err      error
	)

	if r.mode == Async {
		g, gctx := newGroup(ctx)

		g.Go(func() error {
			var lookupErr error

			format, lookupErr = lookup(gctx)

			return lookupErr
		})

		g.Go(func() error {
			var argErr error

			resolved, argErr = r.resolveArgs(gctx, args)

			return argErr
		})

		err = g.Wait()
	} else {
		resolved, err = r.resolveArgs(ctx, args)
		if err == nil {
			format, err = lookup(ctx)
		}
	}

	if err != nil {
		return nil, err
	}

	r.logger.Trace().
		Str("key", key).
		Int("args", len(resolved)).
		Int("annotations", len(base)).
		Msg("Substituting format string")

	return r.format(key, format, resolved, base), nil
}

// format wraps richtext.Format so that index panics name the key.
func (r *Resolver) format(key, format string, args []richtext.Arg, base []annotation.Annotation) richtext.Text {
	defer func() {
		if rec := recover(); rec != nil {
			if ie, ok := rec.(*placeholder.IndexError); ok {
				panic(&ArgumentError{Key: key, Format: format, Err: ie})
			}

			panic(rec)
		}
	}()

	return richtext.Format(r.syntax.Parse(format), args, base)
}

func (r *Resolver) resolveArgs(ctx context.Context, args []Argument) ([]richtext.Arg, error) {
	out := make([]richtext.Arg, len(args))

	if r.mode == Async && countNodes(args) > 1 {
		g, gctx := newGroup(ctx)

		for i, a := range args {
			out[i].Annotations = a.Annotations

			node, ok := a.Value.(Node)
			if !ok {
				out[i].Value = scalarText(a.Value)
				continue
			}

			g.Go(func() error {
				t, err := r.resolve(gctx, node)
				if err != nil {
					return err
				}

				out[i].Value = t

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		return out, nil
	}

	for i, a := range args {
		out[i].Annotations = a.Annotations

		node, ok := a.Value.(Node)
		if !ok {
			out[i].Value = scalarText(a.Value)
			continue
		}

		t, err := r.resolve(ctx, node)
		if err != nil {
			return nil, err
		}

		out[i].Value = t
	}

	return out, nil
}

func (r *Resolver) resolveCompound(ctx context.Context, children []Node) (richtext.Text, error) {
	switch len(children) {
	case 0:
		return richtext.Plain(""), nil
	case 1:
		return r.resolve(ctx, children[0])
	}

	parts := make([]richtext.Text, len(children))

	if r.mode == Async {
		g, gctx := newGroup(ctx)

		for i, child := range children {
			g.Go(func() error {
				t, err := r.resolve(gctx, child)
				if err != nil {
					return err
				}

				parts[i] = t

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, child := range children {
			t, err := r.resolve(ctx, child)
			if err != nil {
				return nil, err
			}

			parts[i] = t
		}
	}

	return richtext.Concat(parts...), nil
}

func countNodes(args []Argument) int {
	n := 0

	for _, a := range args {
		if _, ok := a.Value.(Node); ok {
			n++
		}
	}

	return n
}
