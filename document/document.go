// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package document reads template node trees written in YAML.

A document is a list of entries, each exactly one of raw, format or plural:

	- raw: "Hello, "
	- format: greeting
	  annotations: [{span: {bold: true}}]
	  args:
	    - text: Radu
	      annotations: [{span: {color: "#cc0000"}}]
	    - nodes: [{plural: items, quantity: 3}]
	- plural: items
	  quantity: 5

Arguments are exactly one of text or nodes. Annotations are exactly one of
span, paragraph or link.
*/
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/goccy/go-yaml"

	"codeberg.org/uitext/uitext/annotation"
	"codeberg.org/uitext/uitext/richtext"
	"codeberg.org/uitext/uitext/uitext"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("document: invalid")

// Document is an ordered list of entries.
type Document []Entry

// Entry is one node of a document.
type Entry struct {
	Raw         *string      `yaml:"raw,omitempty"`
	Format      string       `yaml:"format,omitempty"`
	Plural      string       `yaml:"plural,omitempty"`
	Quantity    int          `yaml:"quantity,omitempty"`
	Args        []Arg        `yaml:"args,omitempty"`
	NoArgs      bool         `yaml:"noargs,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
}

// Arg is one argument of a format or plural entry.
type Arg struct {
	Text        *string      `yaml:"text,omitempty"`
	Nodes       Document     `yaml:"nodes,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
}

// Annotation is one annotation of an entry or argument.
type Annotation struct {
	Span      *annotation.SpanStyle      `yaml:"span,omitempty"`
	Paragraph *annotation.ParagraphStyle `yaml:"paragraph,omitempty"`
	Link      *Link                      `yaml:"link,omitempty"`
}

// Link is the YAML form of [annotation.Link].
type Link struct {
	URL   string               `yaml:"url,omitempty"`
	Tag   string               `yaml:"tag,omitempty"`
	Style annotation.SpanStyle `yaml:"style,omitempty"`
}

// Parse decodes and validates a document. Unknown fields are rejected.
func Parse(data []byte) (Document, error) {
	var doc Document

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// ReadFile parses the document stored at name in fsys.
func ReadFile(fsys fs.FS, name string) (Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return doc, nil
}

// Validate checks the shape of every entry and names the first offending
// path, such as "[1].args[0].nodes[2]".
func (d Document) Validate() error {
	return d.validate("")
}

func (d Document) validate(prefix string) error {
	for i, e := range d {
		p := fmt.Sprintf("%s[%d]", prefix, i)

		kinds := 0

		if e.Raw != nil {
			kinds++
		}

		if e.Format != "" {
			kinds++
		}

		if e.Plural != "" {
			kinds++
		}

		if kinds != 1 {
			return fmt.Errorf("%w: entry %s: want exactly one of raw, format, plural", ErrInvalid, p)
		}

		if e.Raw != nil && (len(e.Args) > 0 || e.NoArgs || e.Quantity != 0) {
			return fmt.Errorf("%w: entry %s: raw text takes no args or quantity", ErrInvalid, p)
		}

		if e.Format != "" && e.Quantity != 0 {
			return fmt.Errorf("%w: entry %s: quantity needs plural", ErrInvalid, p)
		}

		if e.NoArgs && len(e.Args) > 0 {
			return fmt.Errorf("%w: entry %s: noargs with args", ErrInvalid, p)
		}

		if err := validateAnnotations(e.Annotations, p); err != nil {
			return err
		}

		for j, a := range e.Args {
			ap := fmt.Sprintf("%s.args[%d]", p, j)

			if (a.Text != nil) == (a.Nodes != nil) {
				return fmt.Errorf("%w: entry %s: want exactly one of text, nodes", ErrInvalid, ap)
			}

			if err := validateAnnotations(a.Annotations, ap); err != nil {
				return err
			}

			if err := a.Nodes.validate(ap + ".nodes"); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateAnnotations(list []Annotation, p string) error {
	for k, a := range list {
		n := 0

		if a.Span != nil {
			n++
		}

		if a.Paragraph != nil {
			n++
		}

		if a.Link != nil {
			n++
		}

		if n != 1 {
			return fmt.Errorf("%w: entry %s.annotations[%d]: want exactly one of span, paragraph, link", ErrInvalid, p, k)
		}

		if a.Paragraph != nil && !a.Paragraph.Align.Valid() {
			return fmt.Errorf("%w: entry %s.annotations[%d]: unknown align %q", ErrInvalid, p, k, a.Paragraph.Align)
		}

		if a.Link != nil && a.Link.URL == "" && a.Link.Tag == "" {
			return fmt.Errorf("%w: entry %s.annotations[%d]: link needs url or tag", ErrInvalid, p, k)
		}
	}

	return nil
}

// Node converts a validated document to a node through the builder DSL.
func (d Document) Node() uitext.Node {
	return uitext.New(d.build)
}

func (d Document) build(b *uitext.Builder) {
	for _, e := range d {
		anns := convert(e.Annotations)

		switch {
		case e.Raw != nil:
			if len(anns) == 0 {
				b.Raw(*e.Raw)
			} else {
				b.RawText(richtext.Styled(*e.Raw, anns...))
			}
		case e.Format != "":
			b.Format(e.Format, e.options(anns)...)
		default:
			b.Plural(e.Plural, e.Quantity, e.options(anns)...)
		}
	}
}

func (e Entry) options(anns []annotation.Annotation) []uitext.FormatOption {
	opts := make([]uitext.FormatOption, 0, len(e.Args)+2)

	if e.NoArgs {
		opts = append(opts, uitext.NoArgs())
	}

	for _, a := range e.Args {
		if a.Text != nil {
			opts = append(opts, uitext.Arg(*a.Text, convert(a.Annotations)...))
		} else {
			opts = append(opts, uitext.ArgNode(a.Nodes.build, convert(a.Annotations)...))
		}
	}

	if len(anns) > 0 {
		opts = append(opts, uitext.Annotate(anns...))
	}

	return opts
}

func convert(list []Annotation) []annotation.Annotation {
	if len(list) == 0 {
		return nil
	}

	out := make([]annotation.Annotation, 0, len(list))

	for _, a := range list {
		switch {
		case a.Span != nil:
			out = append(out, annotation.Span{Style: *a.Span})
		case a.Paragraph != nil:
			out = append(out, annotation.Paragraph{Style: *a.Paragraph})
		case a.Link != nil:
			out = append(out, annotation.Link{URL: a.Link.URL, Tag: a.Link.Tag, Style: a.Link.Style})
		}
	}

	return out
}

// Keys returns the format and plural keys used anywhere in d, in order of
// first appearance.
func (d Document) Keys() []string {
	var keys []string

	d.walkKeys(func(k string, _ bool) {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	})

	return keys
}

// PluralKeys returns the keys used by plural entries of d, in order of first
// appearance.
func (d Document) PluralKeys() []string {
	var keys []string

	d.walkKeys(func(k string, plural bool) {
		if plural && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	})

	return keys
}

func (d Document) walkKeys(fn func(key string, plural bool)) {
	for _, e := range d {
		switch {
		case e.Format != "":
			fn(e.Format, false)
		case e.Plural != "":
			fn(e.Plural, true)
		}

		for _, a := range e.Args {
			a.Nodes.walkKeys(fn)
		}
	}
}
