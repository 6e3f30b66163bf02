/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"fmt"
	"strings"

	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/registry"
)

// DefaultKeyField is the record field holding an entity's key string.
const DefaultKeyField = "key"

// Type is a model type: a name, its bases, a key type and a resolved schema.
// Types are immutable once defined and safe to share between goroutines.
type Type struct {
	name     string
	bases    []*Type
	keyType  *string
	keyField string
	schema   *registry.Schema
	// mro is t followed by its ancestors in C3 order.
	mro []*Type
}

type definition struct {
	bases    []*Type
	keyType  *string
	keyField string
	declared []registry.Declaration
}

// Option configures a type being defined.
type Option func(*definition)

// Extends sets the base types, in merge order.
func Extends(bases ...*Type) Option {
	return func(d *definition) {
		d.bases = append(d.bases, bases...)
	}
}

// KeyType sets an explicit key type tag. Subtypes inherit it.
func KeyType(tag string) Option {
	return func(d *definition) {
		d.keyType = &tag
	}
}

// ResetKeyType drops any inherited key type tag, so the type and its
// subtypes fall back to their own lowercase names.
func ResetKeyType() Option {
	return KeyType("")
}

// KeyField renames the record field that holds the key.
func KeyField(name string) Option {
	return func(d *definition) {
		d.keyField = name
	}
}

// Attr declares a field on the type.
func Attr(name string, a *attribute.Attribute) Option {
	return func(d *definition) {
		d.declared = append(d.declared, registry.Declaration{Name: name, Attr: a})
	}
}

// Define builds a model type and composes its schema.
func Define(name string, opts ...Option) (*Type, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "type name is required")
	}

	var d definition
	for _, opt := range opts {
		opt(&d)
	}

	t := &Type{
		name:     name,
		bases:    d.bases,
		keyType:  d.keyType,
		keyField: d.keyField,
	}

	bases := make([]*registry.Schema, 0, len(d.bases))
	for i, b := range d.bases {
		if b == nil {
			return nil, errors.NewValidationError(fmt.Sprintf("bases[%d]", i), "base type is nil")
		}
		bases = append(bases, b.schema)
	}

	mro, err := linearize(t)
	if err != nil {
		return nil, errors.Wrapf(err, "defining %s", name)
	}
	t.mro = mro

	schema, err := registry.Compose(t, bases, d.declared)
	if err != nil {
		return nil, errors.Wrapf(err, "defining %s", name)
	}
	t.schema = schema
	return t, nil
}

// MustDefine is Define for package-level type declarations. It panics on error.
func MustDefine(name string, opts ...Option) *Type {
	t, err := Define(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Type) Name() string { return t.name }

func (t *Type) String() string { return t.name }

// Bases returns the direct base types.
func (t *Type) Bases() []*Type {
	out := make([]*Type, len(t.bases))
	copy(out, t.bases)
	return out
}

// Schema returns the resolved schema.
func (t *Type) Schema() *registry.Schema { return t.schema }

// linearize orders t and its ancestors the C3 way: every type comes before
// its bases, direct bases keep their declared order, and a shared ancestor
// comes after all of the types that derive from it.
func linearize(t *Type) ([]*Type, error) {
	seqs := make([][]*Type, 0, len(t.bases)+1)
	for _, b := range t.bases {
		seqs = append(seqs, append([]*Type(nil), b.mro...))
	}
	seqs = append(seqs, append([]*Type(nil), t.bases...))

	out := []*Type{t}
	for {
		nonEmpty := seqs[:0]
		for _, seq := range seqs {
			if len(seq) > 0 {
				nonEmpty = append(nonEmpty, seq)
			}
		}
		seqs = nonEmpty
		if len(seqs) == 0 {
			return out, nil
		}

		var head *Type
		for _, seq := range seqs {
			if !inTail(seqs, seq[0]) {
				head = seq[0]
				break
			}
		}
		if head == nil {
			return nil, errors.NewValidationError("bases",
				fmt.Sprintf("no consistent order for the bases of %s", t.name))
		}
		out = append(out, head)
		for i, seq := range seqs {
			if seq[0] == head {
				seqs[i] = seq[1:]
			}
		}
	}
}

func inTail(seqs [][]*Type, t *Type) bool {
	for _, seq := range seqs {
		for _, x := range seq[1:] {
			if x == t {
				return true
			}
		}
	}
	return false
}

// declaredKeyType finds the nearest explicit key type tag in C3 order.
func (t *Type) declaredKeyType() (string, bool) {
	for _, x := range t.mro {
		if x.keyType != nil {
			return *x.keyType, true
		}
	}
	return "", false
}

// KeyType returns the type tag used in keys: the nearest explicit tag, or
// the lowercase type name when there is none or it was reset.
func (t *Type) KeyType() string {
	if tag, _ := t.declaredKeyType(); tag != "" {
		return tag
	}
	return strings.ToLower(t.name)
}

// KeyField returns the record field holding the key.
func (t *Type) KeyField() string {
	if f := t.declaredKeyField(); f != "" {
		return f
	}
	return DefaultKeyField
}

func (t *Type) declaredKeyField() string {
	for _, x := range t.mro {
		if x.keyField != "" {
			return x.keyField
		}
	}
	return ""
}

// Key returns the root key of the type, e.g. /person. Instance keys are
// children of it.
func (t *Type) Key() datastore.Key {
	return datastore.NewKey(t.KeyType())
}

// IsA reports whether t is other or derives from it.
func (t *Type) IsA(other *Type) bool {
	if t == other {
		return true
	}
	for _, b := range t.bases {
		if b.IsA(other) {
			return true
		}
	}
	return false
}

// Attribute returns the attribute declared under name.
func (t *Type) Attribute(name string) (*attribute.Attribute, bool) {
	return t.schema.Lookup(name)
}

// Fields returns the declared field names, inherited fields first.
func (t *Type) Fields() []string {
	return t.schema.Names()
}

// InstanceKey qualifies name under the type's root key.
func (t *Type) InstanceKey(name string) (datastore.Key, error) {
	if name == "" {
		return datastore.Key{}, errors.NewValidationError("name", "instance name is required")
	}
	if strings.Contains(name, "/") {
		return datastore.Key{}, errors.NewValidationError("name", fmt.Sprintf("instance name %q must not contain '/'", name))
	}
	return t.Key().Instance(name), nil
}

// CheckKey verifies that key names an instance of this type.
func (t *Type) CheckKey(key datastore.Key) error {
	if key.Type() != t.KeyType() {
		return errors.NewTypeMismatchError("key "+key.String(), t.KeyType(), key.Type())
	}
	return nil
}

// New creates an instance named name under the type's root key, with every
// field set to its default.
func (t *Type) New(name string) (*Entity, error) {
	key, err := t.InstanceKey(name)
	if err != nil {
		return nil, err
	}
	return t.NewWithKey(key)
}

// NewWithKey creates an instance with an explicit key, which may have
// parents (e.g. /org:acme/person:ada).
func (t *Type) NewWithKey(key datastore.Key) (*Entity, error) {
	if err := t.CheckKey(key); err != nil {
		return nil, err
	}

	e := &Entity{typ: t, data: make(datastore.Record, t.schema.Len()+1)}
	for _, a := range t.schema.Attributes() {
		v, err := a.EncodedDefault()
		if err != nil {
			return nil, errors.Wrapf(err, "encoding default of %s.%s", t.name, a.Name())
		}
		e.data[a.Name()] = v
	}
	e.setKey(key)
	return e, nil
}

// WithData reconstructs an instance from a stored record. The key comes from
// the record's key field; every value in data is then copied over the
// defaults as is.
func (t *Type) WithData(data datastore.Record) (*Entity, error) {
	raw, ok := data[t.KeyField()]
	if !ok || raw == nil {
		return nil, errors.NewMissingKeyFieldError(t.name, t.KeyField())
	}
	key, err := parseKey(raw)
	if err != nil {
		return nil, err
	}
	e, err := t.NewWithKey(key)
	if err != nil {
		return nil, err
	}
	e.UpdateData(data)
	return e, nil
}

func parseKey(raw any) (datastore.Key, error) {
	switch k := raw.(type) {
	case string:
		return datastore.NewKey(k), nil
	case datastore.Key:
		return k, nil
	case fmt.Stringer:
		return datastore.NewKey(k.String()), nil
	}
	return datastore.Key{}, errors.NewValidationError("key", fmt.Sprintf("key field holds %T, want string", raw))
}
