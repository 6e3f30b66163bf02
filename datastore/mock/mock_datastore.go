/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Store for testing
package mock

import (
	"context"
	"iter"
	"sort"
	"sync"

	"github.com/suparena/objectstore/datastore"
)

// DataStore is an in-memory datastore.Store. Values are deep-copied on the way
// in and out, so callers never share state with the store.
type DataStore struct {
	mu          sync.RWMutex
	data        map[string]any
	queryFunc   func(ctx context.Context, q *datastore.Query) (iter.Seq2[any, error], error)
	getError    error
	putError    error
	deleteError error
	queryError  error
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data: make(map[string]any),
	}
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore) WithQueryFunc(f func(ctx context.Context, q *datastore.Query) (iter.Seq2[any, error], error)) *DataStore {
	m.queryFunc = f
	return m
}

// WithGetError makes Get and Contains operations return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore) WithPutError(err error) *DataStore {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// WithQueryError makes Query operations return an error
func (m *DataStore) WithQueryError(err error) *DataStore {
	m.queryError = err
	return m
}

// Get retrieves the value stored under key, or nil
func (m *DataStore) Get(ctx context.Context, key datastore.Key) (any, error) {
	if m.getError != nil {
		return nil, m.getError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key.String()]
	if !ok {
		return nil, nil
	}
	return datastore.CloneValue(v), nil
}

// Put stores value under key
func (m *DataStore) Put(ctx context.Context, key datastore.Key, value any) error {
	if m.putError != nil {
		return m.putError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key.String()] = datastore.CloneValue(value)
	return nil
}

// Delete removes the value stored under key
func (m *DataStore) Delete(ctx context.Context, key datastore.Key) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key.String())
	return nil
}

// Contains reports whether a value is stored under key
func (m *DataStore) Contains(ctx context.Context, key datastore.Key) (bool, error) {
	if m.getError != nil {
		return false, m.getError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[key.String()]
	return ok, nil
}

// Query snapshots the collection named by q.Key in key order and evaluates q over it
func (m *DataStore) Query(ctx context.Context, q *datastore.Query) (iter.Seq2[any, error], error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	if m.queryFunc != nil {
		return m.queryFunc(ctx, q)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if datastore.NewKey(k).Path().Equal(q.Key) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snapshot := make([]any, 0, len(keys))
	for _, k := range keys {
		snapshot = append(snapshot, datastore.CloneValue(m.data[k]))
	}
	m.mu.RUnlock()

	return q.Apply(func(yield func(any, error) bool) {
		for _, v := range snapshot {
			if !yield(v, nil) {
				return
			}
		}
	}), nil
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing)
func (m *DataStore) SetData(data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore) GetData() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]any, len(m.data))
	for k, v := range m.data {
		result[k] = datastore.CloneValue(v)
	}
	return result
}

// Count returns the number of stored values
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]any)
}
