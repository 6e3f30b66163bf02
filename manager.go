/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectstore

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/model"
)

// Manager is the per-type entry point: it qualifies bare names under the
// type's root key and only accepts entities of its type.
//
// Methods taking a name qualify it under the type's root key; the *Key
// variants take a full key and check its type.
type Manager struct {
	objects *ObjectStore
	typ     *model.Type
	log     *zap.SugaredLogger
}

// NewManager creates a manager for typ over store.
func NewManager(store datastore.Store, typ *model.Type, opts ...Option) *Manager {
	o := buildOptions(opts)
	return &Manager{
		objects: New(store, typ, opts...),
		typ:     typ,
		log:     o.logger.With("type", typ.Name()),
	}
}

// Type returns the bound model type.
func (m *Manager) Type() *model.Type { return m.typ }

// Objects returns the underlying ObjectStore.
func (m *Manager) Objects() *ObjectStore { return m.objects }

// Key qualifies name under the type's root key.
func (m *Manager) Key(name string) (datastore.Key, error) {
	return m.typ.InstanceKey(name)
}

// ResolveKey checks that key names an instance of the bound type.
func (m *Manager) ResolveKey(key datastore.Key) (datastore.Key, error) {
	if err := m.typ.CheckKey(key); err != nil {
		return datastore.Key{}, err
	}
	return key, nil
}

// Get returns the instance called name, or nil when there is none.
func (m *Manager) Get(ctx context.Context, name string) (*model.Entity, error) {
	key, err := m.Key(name)
	if err != nil {
		return nil, err
	}
	return m.get(ctx, key)
}

// GetKey returns the instance stored under key, or nil when there is none.
func (m *Manager) GetKey(ctx context.Context, key datastore.Key) (*model.Entity, error) {
	key, err := m.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	return m.get(ctx, key)
}

func (m *Manager) get(ctx context.Context, key datastore.Key) (*model.Entity, error) {
	v, err := m.objects.Get(ctx, key)
	if err != nil || v == nil {
		return nil, err
	}
	e, ok := v.(*model.Entity)
	if !ok {
		return nil, errors.NewTypeMismatchError("value at "+key.String(), m.typ.Name(), fmt.Sprintf("%T", v))
	}
	return e, nil
}

// Contains reports whether an instance called name is stored.
func (m *Manager) Contains(ctx context.Context, name string) (bool, error) {
	key, err := m.Key(name)
	if err != nil {
		return false, err
	}
	return m.objects.Contains(ctx, key)
}

// ContainsKey reports whether an instance is stored under key.
func (m *Manager) ContainsKey(ctx context.Context, key datastore.Key) (bool, error) {
	key, err := m.ResolveKey(key)
	if err != nil {
		return false, err
	}
	return m.objects.Contains(ctx, key)
}

// Put stores e under its own key.
func (m *Manager) Put(ctx context.Context, e *model.Entity) error {
	if err := m.checkEntity(e); err != nil {
		return err
	}
	return m.objects.Put(ctx, e.Key(), e)
}

func (m *Manager) checkEntity(e *model.Entity) error {
	if e == nil {
		return errors.NewTypeMismatchError("entity", m.typ.Name(), "nil")
	}
	if !e.IsA(m.typ) {
		return errors.NewTypeMismatchError("entity "+e.String(), m.typ.Name(), e.Type().Name())
	}
	return nil
}

// Delete removes the instance called name.
func (m *Manager) Delete(ctx context.Context, name string) error {
	key, err := m.Key(name)
	if err != nil {
		return err
	}
	return m.objects.Delete(ctx, key)
}

// DeleteKey removes the instance stored under key.
func (m *Manager) DeleteKey(ctx context.Context, key datastore.Key) error {
	key, err := m.ResolveKey(key)
	if err != nil {
		return err
	}
	return m.objects.Delete(ctx, key)
}

// InitQuery returns a query over every instance of the type.
func (m *Manager) InitQuery() *datastore.Query {
	return datastore.NewQuery(m.typ.Key())
}

// Query runs q and yields entities of the bound type.
func (m *Manager) Query(ctx context.Context, q *datastore.Query) (iter.Seq2[*model.Entity, error], error) {
	return m.objects.Query(ctx, q)
}

// RemoveAll deletes every instance returned by a full-type query and
// reports how many were deleted.
//
// It is not atomic: instances written after the query ran are not removed.
func (m *Manager) RemoveAll(ctx context.Context) (int, error) {
	return m.removeAll(ctx, m.objects.Delete)
}

func (m *Manager) removeAll(ctx context.Context, del func(context.Context, datastore.Key) error) (int, error) {
	seq, err := m.Query(ctx, m.InitQuery())
	if err != nil {
		return 0, err
	}

	// collect first so backends holding a cursor are not written to mid-scan
	var keys []datastore.Key
	for e, err := range seq {
		if err != nil {
			return 0, err
		}
		keys = append(keys, e.Key())
	}

	for i, key := range keys {
		if err := del(ctx, key); err != nil {
			return i, errors.Wrapf(err, "removing %s", key)
		}
	}
	m.log.Debugw("removed all instances", "count", len(keys))
	return len(keys), nil
}
