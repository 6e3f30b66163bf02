/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"strings"

	"github.com/suparena/objectstore"
	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/model"
	"github.com/suparena/objectstore/registry"
	"github.com/suparena/objectstore/serialize"
)

// BuildTypes defines every configured model, bases before the models that
// extend them, and registers them in a new type catalog.
func (c *Config) BuildTypes() (*registry.Types[*model.Type], error) {
	decls := make(map[string]ModelConfig, len(c.Models))
	for _, m := range c.Models {
		decls[m.Name] = m
	}

	types := registry.NewTypes[*model.Type]()
	built := make(map[string]*model.Type, len(c.Models))
	visiting := make(map[string]bool)

	var build func(name string, chain []string) (*model.Type, error)
	build = func(name string, chain []string) (*model.Type, error) {
		if t, ok := built[name]; ok {
			return t, nil
		}
		m, ok := decls[name]
		if !ok {
			return nil, errors.NewValidationError("extends", "unknown model "+name)
		}
		if visiting[name] {
			return nil, errors.NewValidationError("extends",
				"inheritance cycle "+strings.Join(append(chain, name), " -> "))
		}
		visiting[name] = true
		defer delete(visiting, name)

		opts := make([]model.Option, 0, len(m.Fields)+4)
		if len(m.Extends) > 0 {
			bases := make([]*model.Type, 0, len(m.Extends))
			for _, b := range m.Extends {
				base, err := build(b, append(chain, name))
				if err != nil {
					return nil, err
				}
				bases = append(bases, base)
			}
			opts = append(opts, model.Extends(bases...))
		}
		if m.ResetKeyType {
			opts = append(opts, model.ResetKeyType())
		}
		if m.KeyType != "" {
			opts = append(opts, model.KeyType(m.KeyType))
		}
		if m.KeyField != "" {
			opts = append(opts, model.KeyField(m.KeyField))
		}
		for _, f := range m.Fields {
			attr, err := f.attribute()
			if err != nil {
				return nil, errors.Wrapf(err, "model %s", name)
			}
			opts = append(opts, model.Attr(f.Name, attr))
		}

		t, err := model.Define(name, opts...)
		if err != nil {
			return nil, err
		}
		if err := types.Register(t); err != nil {
			return nil, err
		}
		built[name] = t
		return t, nil
	}

	for _, m := range c.Models {
		if _, err := build(m.Name, nil); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (f FieldConfig) attribute() (*attribute.Attribute, error) {
	typeName := f.Type
	if typeName == "" {
		typeName = "string"
	}
	dt, err := attribute.TypeByName(typeName)
	if err != nil {
		return nil, errors.NewValidationError(f.Name, err.Error())
	}
	ser, err := serialize.ByName(f.Serializer)
	if err != nil {
		return nil, errors.NewValidationError(f.Name, err.Error())
	}

	opts := []attribute.Option{attribute.OfType(dt), attribute.WithSerializer(ser)}
	if f.As != "" {
		opts = append(opts, attribute.Named(f.As))
	}
	if f.Required {
		opts = append(opts, attribute.Required())
	}
	if f.Default != nil {
		def, err := dt.Coerce(f.Default)
		if err != nil {
			return nil, errors.NewTypeCoercionError(f.Name, f.Default, dt.Name(), err)
		}
		opts = append(opts, attribute.WithDefault(def))
	}
	return attribute.New(opts...), nil
}

// BuildCatalog registers an accessor for every type over store: a
// CollectionManager for models declared with collection, a Manager otherwise.
func (c *Config) BuildCatalog(store datastore.Store, types *registry.Types[*model.Type], opts ...objectstore.Option) (*objectstore.Catalog, error) {
	collections := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		collections[m.Name] = m.Collection
	}

	catalog := objectstore.NewCatalog()
	for _, t := range types.All() {
		var a objectstore.Accessor
		if collections[t.Name()] {
			a = objectstore.NewCollectionManager(store, t, opts...)
		} else {
			a = objectstore.NewManager(store, t, opts...)
		}
		if err := catalog.Register(a); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
