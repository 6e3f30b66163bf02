/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"
)

// TypeInfo is what the catalog needs to know about a model type.
type TypeInfo interface {
	Name() string
	KeyType() string
}

// Types is a catalog of model types by name and key type. Several types may
// share a key type, as a subtype inherits its base's tag; lookups by key type
// then return the one registered first. It is safe for concurrent use and is
// normally filled once during initialization.
type Types[T TypeInfo] struct {
	mu     sync.RWMutex
	byKey  map[string][]T
	byName map[string]T
}

// NewTypes creates an empty catalog.
func NewTypes[T TypeInfo]() *Types[T] {
	return &Types[T]{
		byKey:  make(map[string][]T),
		byName: make(map[string]T),
	}
}

// Register adds t to the catalog. Two types may not share a name.
func (r *Types[T]) Register(t T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[t.Name()]; exists {
		return fmt.Errorf("type registry: type %q already registered", t.Name())
	}
	r.byKey[t.KeyType()] = append(r.byKey[t.KeyType()], t)
	r.byName[t.Name()] = t
	return nil
}

// MustRegister is Register for package initialization; it panics on conflict.
func (r *Types[T]) MustRegister(t T) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// ByKeyType returns the first type registered for keyType.
func (r *Types[T]) ByKeyType(keyType string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts := r.byKey[keyType]
	if len(ts) == 0 {
		var zero T
		return zero, fmt.Errorf("type registry: no type registered for key type %q", keyType)
	}
	return ts[0], nil
}

// SharingKeyType returns every type registered for keyType, in registration order.
func (r *Types[T]) SharingKeyType(keyType string) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]T(nil), r.byKey[keyType]...)
}

// ByName returns the type registered under its type name.
func (r *Types[T]) ByName(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("type registry: no type named %q", name)
	}
	return t, nil
}

// Lookup resolves either a type name or a key type.
func (r *Types[T]) Lookup(nameOrKeyType string) (T, error) {
	if t, err := r.ByName(nameOrKeyType); err == nil {
		return t, nil
	}
	return r.ByKeyType(nameOrKeyType)
}

// All returns the registered types ordered by key type, then by
// registration order.
func (r *Types[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(r.byName))
	for _, k := range keys {
		out = append(out, r.byKey[k]...)
	}
	return out
}

// Len returns the number of registered types.
func (r *Types[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
