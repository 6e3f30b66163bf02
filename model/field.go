/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"fmt"

	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/errors"
)

// Field is a typed accessor for one schema field of a model type.
//
//	email := model.MustFieldOf[string](Person, "email")
//	addr, err := email.Get(ada)
type Field[T any] struct {
	typ  *Type
	name string
	attr *attribute.Attribute
}

// FieldOf looks up name in the schema of t.
func FieldOf[T any](t *Type, name string) (Field[T], error) {
	a, ok := t.Attribute(name)
	if !ok {
		return Field[T]{}, errors.NewValidationError(name, fmt.Sprintf("%s has no attribute %s", t.name, name))
	}
	return Field[T]{typ: t, name: name, attr: a}, nil
}

// MustFieldOf is FieldOf for package-level accessor declarations.
func MustFieldOf[T any](t *Type, name string) Field[T] {
	f, err := FieldOf[T](t, name)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the field name as declared on the type.
func (f Field[T]) Name() string { return f.name }

// Attribute returns the underlying attribute.
func (f Field[T]) Attribute() *attribute.Attribute { return f.attr }

func (f Field[T]) check(e *Entity) error {
	if e == nil {
		return errors.NewTypeMismatchError("entity", f.typ.name, "nil")
	}
	if !e.IsA(f.typ) {
		return errors.NewTypeMismatchError("entity "+e.String(), f.typ.name, e.typ.name)
	}
	return nil
}

// Get returns the decoded value, or the zero T when the field holds nil.
func (f Field[T]) Get(e *Entity) (T, error) {
	var zero T
	if err := f.check(e); err != nil {
		return zero, err
	}
	v, err := f.attr.Get(e)
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.NewTypeMismatchError("attribute "+f.name, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", v))
	}
	return out, nil
}

// Set stores v through the attribute.
func (f Field[T]) Set(e *Entity, v T) error {
	if err := f.check(e); err != nil {
		return err
	}
	return f.attr.Set(e, v)
}
