/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectstore

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/model"
)

// Accessor is the manager surface shared by Manager and CollectionManager.
type Accessor interface {
	Type() *model.Type
	Key(name string) (datastore.Key, error)
	Get(ctx context.Context, name string) (*model.Entity, error)
	Contains(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, e *model.Entity) error
	Delete(ctx context.Context, name string) error
	InitQuery() *datastore.Query
	Query(ctx context.Context, q *datastore.Query) (iter.Seq2[*model.Entity, error], error)
	RemoveAll(ctx context.Context) (int, error)
}

var (
	_ Accessor = (*Manager)(nil)
	_ Accessor = (*CollectionManager)(nil)
)

// Catalog is a thread-safe set of accessors, one per model type, looked up
// by type name or key type.
type Catalog struct {
	mu        sync.RWMutex
	accessors map[string]Accessor
	// type names per key type, in registration order
	keyTypes map[string][]string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		accessors: make(map[string]Accessor),
		keyTypes:  make(map[string][]string),
	}
}

// Register adds a for its model type. Types may share a key type; lookups by
// key type then resolve to the accessor registered first.
func (c *Catalog) Register(a Accessor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := a.Type().Name()
	if _, exists := c.accessors[name]; exists {
		return fmt.Errorf("accessor for type %q already registered", name)
	}
	keyType := a.Type().KeyType()
	c.accessors[name] = a
	c.keyTypes[keyType] = append(c.keyTypes[keyType], name)
	return nil
}

// RegisterTypes registers a Manager, or a CollectionManager when collections
// is set, for each type over store.
func (c *Catalog) RegisterTypes(store datastore.Store, types []*model.Type, collections bool, opts ...Option) error {
	for _, t := range types {
		var a Accessor
		if collections {
			a = NewCollectionManager(store, t, opts...)
		} else {
			a = NewManager(store, t, opts...)
		}
		if err := c.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the accessor for a type name or key type.
func (c *Catalog) Get(nameOrKeyType string) (Accessor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if a, ok := c.accessors[nameOrKeyType]; ok {
		return a, nil
	}
	if names := c.keyTypes[nameOrKeyType]; len(names) > 0 {
		return c.accessors[names[0]], nil
	}
	return nil, fmt.Errorf("accessor for type %q not found", nameOrKeyType)
}

// ForKey returns the accessor whose type owns key.
func (c *Catalog) ForKey(key datastore.Key) (Accessor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := c.keyTypes[key.Type()]
	if len(names) == 0 {
		return nil, fmt.Errorf("no accessor for key %s", key)
	}
	return c.accessors[names[0]], nil
}

// Remove drops the accessor registered for a type name.
func (c *Catalog) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, exists := c.accessors[name]
	if !exists {
		return fmt.Errorf("accessor for type %q not found", name)
	}
	keyType := a.Type().KeyType()
	names := slices.DeleteFunc(c.keyTypes[keyType], func(n string) bool { return n == name })
	if len(names) == 0 {
		delete(c.keyTypes, keyType)
	} else {
		c.keyTypes[keyType] = names
	}
	delete(c.accessors, name)
	return nil
}

// List returns the registered type names, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.accessors))
	for name := range c.accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
