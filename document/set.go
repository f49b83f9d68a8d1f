// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"fmt"
	"io/fs"

	"github.com/goccy/go-yaml"
)

// Set is a collection of named documents in file order.
type Set struct {
	names []string
	docs  map[string]Document
}

// ParseSet decodes a YAML mapping of names to documents.
func ParseSet(data []byte) (*Set, error) {
	var order yaml.MapSlice
	if err := yaml.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var docs map[string]Document
	if err := yaml.UnmarshalWithOptions(data, &docs, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s := &Set{docs: docs}

	for _, item := range order {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: document name %v is not a string", ErrInvalid, item.Key)
		}

		if err := docs[name].validate(name); err != nil {
			return nil, err
		}

		s.names = append(s.names, name)
	}

	return s, nil
}

// ReadSet parses the named-document file stored at name in fsys.
func ReadSet(fsys fs.FS, name string) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	s, err := ParseSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return s, nil
}

// Names returns the document names in file order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Get returns the document called name.
func (s *Set) Get(name string) (Document, bool) {
	d, ok := s.docs[name]
	return d, ok
}

// Keys returns every format and plural key of the set, in order of first
// appearance.
func (s *Set) Keys() []string {
	return s.all().Keys()
}

// PluralKeys returns every plural key of the set, in order of first appearance.
func (s *Set) PluralKeys() []string {
	return s.all().PluralKeys()
}

func (s *Set) all() Document {
	var all Document

	for _, name := range s.names {
		all = append(all, s.docs[name]...)
	}

	return all
}
