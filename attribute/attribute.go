/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package attribute

import (
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/serialize"
)

// Holder owns the record an attribute reads from and writes to.
type Holder interface {
	Record() datastore.Record
}

// Owner is the type that first declared an attribute.
type Owner interface {
	Name() string
}

// Attribute describes one named, typed field of a model.
//
// Values always live in the holder's record, in serialized form; an
// Attribute itself holds no per-instance state.
type Attribute struct {
	name       string
	defaultVal any
	required   bool
	dataType   DataType
	serializer serialize.Serializer
	owner      Owner
}

// Option configures an Attribute
type Option func(*Attribute)

// Named fixes the record field name instead of taking it from the declaration.
func Named(name string) Option {
	return func(a *Attribute) {
		a.name = name
	}
}

// WithDefault sets the value used when the record holds nothing.
func WithDefault(v any) Option {
	return func(a *Attribute) {
		a.defaultVal = v
	}
}

// Required rejects nil values on validated sets.
func Required() Option {
	return func(a *Attribute) {
		a.required = true
	}
}

// OfType sets the coercion target (String by default).
func OfType(dt DataType) Option {
	return func(a *Attribute) {
		a.dataType = dt
	}
}

// WithSerializer sets the stored form (NonSerializer by default).
func WithSerializer(s serialize.Serializer) Option {
	return func(a *Attribute) {
		a.serializer = s
	}
}

// New creates an attribute. Its name is assigned when it is bound to a model
// unless Named is given.
func New(opts ...Option) *Attribute {
	a := &Attribute{
		dataType:   String,
		serializer: serialize.NonSerializer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Attribute) Name() string { return a.name }

func (a *Attribute) IsRequired() bool { return a.required }

func (a *Attribute) DataType() DataType { return a.dataType }

func (a *Attribute) Serializer() serialize.Serializer { return a.serializer }

// Owner is the model type that first declared the attribute, or nil while unbound.
func (a *Attribute) Owner() Owner { return a.owner }

// DefaultValue returns the unserialized default.
func (a *Attribute) DefaultValue() any { return a.defaultVal }

// EncodedDefault returns the default in its stored form.
func (a *Attribute) EncodedDefault() (any, error) {
	return a.serializer.Dumps(a.defaultVal)
}

// Bind records owner as the declaring type and assigns fallbackName if the
// attribute has no name yet. Neither changes once set.
func (a *Attribute) Bind(owner Owner, fallbackName string) {
	if a.owner == nil {
		a.owner = owner
	}
	if a.name == "" {
		a.name = fallbackName
	}
}

// IsEmptyValue reports whether v counts as absent. Only nil does: zero
// numbers and empty strings are values.
func (a *Attribute) IsEmptyValue(v any) bool {
	return v == nil
}

// Coerce converts v to the attribute's data type. Empty values pass through.
func (a *Attribute) Coerce(v any) (any, error) {
	if a.IsEmptyValue(v) {
		return v, nil
	}
	out, err := a.dataType.Coerce(v)
	if err != nil {
		return nil, errors.NewTypeCoercionError(a.name, v, a.dataType.Name(), err)
	}
	return out, nil
}

// Validate rejects empty values for required attributes.
func (a *Attribute) Validate(v any) (any, error) {
	if a.IsEmptyValue(v) && a.required {
		return nil, errors.NewRequiredFieldError(a.name)
	}
	return v, nil
}

func (a *Attribute) checkName() error {
	if a.name == "" {
		return errors.NewValidationError("name", "attribute name is required")
	}
	return nil
}

// Get decodes the value stored in h's record, falling back to the default
// when the record holds nothing for the attribute.
func (a *Attribute) Get(h Holder) (any, error) {
	if err := a.checkName(); err != nil {
		return nil, err
	}
	raw := h.Record()[a.name]
	if a.IsEmptyValue(raw) {
		var err error
		if raw, err = a.EncodedDefault(); err != nil {
			return nil, errors.Wrapf(err, "encoding default of %s", a.name)
		}
	}
	v, err := a.serializer.Loads(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", a.name)
	}
	return v, nil
}

// Set coerces, validates and encodes v, then writes it into h's record.
func (a *Attribute) Set(h Holder, v any) error {
	return a.set(h, v, true)
}

// SetUnvalidated is Set without the required check.
func (a *Attribute) SetUnvalidated(h Holder, v any) error {
	return a.set(h, v, false)
}

func (a *Attribute) set(h Holder, v any, validate bool) error {
	if err := a.checkName(); err != nil {
		return err
	}
	v, err := a.Coerce(v)
	if err != nil {
		return err
	}
	if validate {
		if v, err = a.Validate(v); err != nil {
			return err
		}
	}
	stored, err := a.serializer.Dumps(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", a.name)
	}
	h.Record()[a.name] = stored
	return nil
}
