/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/errors"
)

// Declaration is a field declared directly on a type, in declaration order.
type Declaration struct {
	Name string
	Attr *attribute.Attribute
}

// Schema is the resolved field table of one model type. It is built once by
// Compose and never modified afterwards.
type Schema struct {
	owner   attribute.Owner
	attrs   map[string]*attribute.Attribute
	sources map[string]attribute.Owner
	order   []string

	// records maps each record name to the field stored under it.
	records map[string]string
}

// Compose resolves the schema of owner from the schemas of its bases (in
// declaration order) and the fields it declares itself.
//
// A field reachable through several bases must come from the same declaring
// type on every path. A declared field may not reuse any inherited name, and
// no two fields may store under the same record name. Declared attributes are
// bound to owner.
func Compose(owner attribute.Owner, bases []*Schema, declared []Declaration) (*Schema, error) {
	s := &Schema{
		owner:   owner,
		attrs:   make(map[string]*attribute.Attribute),
		sources: make(map[string]attribute.Owner),
		records: make(map[string]string),
	}

	for _, base := range bases {
		if base == nil {
			continue
		}
		for _, name := range base.order {
			source := base.sources[name]
			if existing, ok := s.sources[name]; ok {
				if existing != source {
					return nil, errors.NewDuplicateAttributeError(name, ownerName(existing), ownerName(source))
				}
				continue
			}
			a := base.attrs[name]
			if other, ok := s.records[a.Name()]; ok {
				return nil, errors.NewDuplicateAttributeError(a.Name(), ownerName(s.sources[other]), ownerName(source))
			}
			s.add(name, a, source)
		}
	}

	for _, d := range declared {
		if d.Attr == nil {
			return nil, errors.NewValidationError(d.Name, "attribute is nil")
		}
		if d.Name == "" {
			return nil, errors.NewValidationError("name", "declared attribute needs a name")
		}
		if existing, ok := s.sources[d.Name]; ok {
			return nil, errors.NewRedeclaredAttributeError(d.Name, ownerName(existing), ownerName(owner))
		}
		record := d.Attr.Name()
		if record == "" {
			record = d.Name
		}
		if other, ok := s.records[record]; ok {
			return nil, errors.NewRedeclaredAttributeError(record, ownerName(s.sources[other]), ownerName(owner))
		}
		d.Attr.Bind(owner, d.Name)
		s.add(d.Name, d.Attr, owner)
	}

	return s, nil
}

func (s *Schema) add(name string, a *attribute.Attribute, source attribute.Owner) {
	s.attrs[name] = a
	s.sources[name] = source
	s.order = append(s.order, name)
	s.records[a.Name()] = name
}

func ownerName(o attribute.Owner) string {
	if o == nil {
		return "<nil>"
	}
	return o.Name()
}

// Owner returns the type the schema was composed for.
func (s *Schema) Owner() attribute.Owner { return s.owner }

// Len returns the number of resolved fields.
func (s *Schema) Len() int { return len(s.order) }

// Names returns the declared field names, inherited fields first.
func (s *Schema) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Lookup returns the attribute declared under name.
func (s *Schema) Lookup(name string) (*attribute.Attribute, bool) {
	a, ok := s.attrs[name]
	return a, ok
}

// Source returns the type that declared the field under name.
func (s *Schema) Source(name string) (attribute.Owner, bool) {
	o, ok := s.sources[name]
	return o, ok
}

// Attributes returns the resolved attributes in schema order.
func (s *Schema) Attributes() []*attribute.Attribute {
	out := make([]*attribute.Attribute, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.attrs[name])
	}
	return out
}
