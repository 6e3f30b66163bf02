/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"fmt"

	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
)

// Entity is an instance of a model type: a key plus the record that holds
// every field value in stored form. Field reads and writes go straight
// through the record.
//
// An Entity is not safe for concurrent mutation.
type Entity struct {
	typ  *Type
	key  datastore.Key
	data datastore.Record
}

// Type returns the model type of the entity.
func (e *Entity) Type() *Type { return e.typ }

// Key returns the instance key.
func (e *Entity) Key() datastore.Key { return e.key }

// Record returns the live backing record. Changes to it are changes to the
// entity.
func (e *Entity) Record() datastore.Record { return e.data }

func (e *Entity) setKey(key datastore.Key) {
	e.key = key
	e.data[e.typ.KeyField()] = key.String()
}

func (e *Entity) attribute(field string) (*attribute.Attribute, error) {
	a, ok := e.typ.Attribute(field)
	if !ok {
		return nil, errors.NewValidationError(field, fmt.Sprintf("%s has no attribute %s", e.typ.name, field))
	}
	return a, nil
}

// Get returns the decoded value of a schema field.
func (e *Entity) Get(field string) (any, error) {
	a, err := e.attribute(field)
	if err != nil {
		return nil, err
	}
	return a.Get(e)
}

// Set coerces, validates and stores a schema field.
func (e *Entity) Set(field string, value any) error {
	a, err := e.attribute(field)
	if err != nil {
		return err
	}
	return a.Set(e, value)
}

// SetUnvalidated stores a schema field without the required check.
func (e *Entity) SetUnvalidated(field string, value any) error {
	a, err := e.attribute(field)
	if err != nil {
		return err
	}
	return a.SetUnvalidated(e, value)
}

// UpdateData merges data into the record without validation. Unknown fields
// are kept. The key is not re-derived.
func (e *Entity) UpdateData(data datastore.Record) {
	for k, v := range data {
		e.data[k] = v
	}
}

// UpdateAttributes sets every schema field present in data through its
// attribute, so coercion and validation apply. Fields outside the schema are
// ignored. When data carries the key field the key is re-derived from it.
//
// Either every value is applied or, on error, the entity is left unchanged.
func (e *Entity) UpdateAttributes(data datastore.Record) error {
	next := &Entity{typ: e.typ, key: e.key, data: datastore.CloneRecord(e.data)}

	if raw, ok := data[e.typ.KeyField()]; ok {
		key, err := parseKey(raw)
		if err != nil {
			return err
		}
		if err := e.typ.CheckKey(key); err != nil {
			return err
		}
		next.setKey(key)
	}

	for _, a := range e.typ.schema.Attributes() {
		v, ok := data[a.Name()]
		if !ok {
			continue
		}
		if err := a.Set(next, v); err != nil {
			return err
		}
	}

	e.key = next.key
	e.data = next.data
	return nil
}

// Clone returns an independent copy of the entity.
func (e *Entity) Clone() *Entity {
	return &Entity{typ: e.typ, key: e.key, data: datastore.CloneRecord(e.data)}
}

// IsA reports whether the entity is an instance of t or one of its subtypes.
func (e *Entity) IsA(t *Type) bool {
	return e != nil && e.typ.IsA(t)
}

func (e *Entity) String() string {
	return fmt.Sprintf("<%s %s>", e.typ.name, e.key)
}

// GoString renders the entity the way it would be rebuilt from its record.
func (e *Entity) GoString() string {
	return fmt.Sprintf("%s.WithData(%v)", e.typ.name, e.data)
}
