/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"iter"
)

// Store is the key-value boundary the object mapper sits on.
//
// Get returns (nil, nil) when nothing is stored under key, and Delete of a
// missing key is not an error. Values are either Records or any other
// serializable value (lists, strings, numbers).
type Store interface {
	Get(ctx context.Context, key Key) (any, error)

	Put(ctx context.Context, key Key, value any) error

	Delete(ctx context.Context, key Key) error

	Contains(ctx context.Context, key Key) (bool, error)

	// Query returns a lazy, single-pass sequence over the values stored under
	// q.Key. Errors discovered while iterating are yielded with a nil value.
	Query(ctx context.Context, q *Query) (iter.Seq2[any, error], error)
}

// Shim forwards every call to Child. Stores that change one operation embed it.
type Shim struct {
	Child Store
}

func (s Shim) Get(ctx context.Context, key Key) (any, error) {
	return s.Child.Get(ctx, key)
}

func (s Shim) Put(ctx context.Context, key Key, value any) error {
	return s.Child.Put(ctx, key, value)
}

func (s Shim) Delete(ctx context.Context, key Key) error {
	return s.Child.Delete(ctx, key)
}

func (s Shim) Contains(ctx context.Context, key Key) (bool, error) {
	return s.Child.Contains(ctx, key)
}

func (s Shim) Query(ctx context.Context, q *Query) (iter.Seq2[any, error], error) {
	return s.Child.Query(ctx, q)
}

// Collect drains a query sequence into a slice.
func Collect(seq iter.Seq2[any, error]) ([]any, error) {
	var out []any
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
