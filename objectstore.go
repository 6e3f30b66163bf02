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

// Option configures an ObjectStore, Manager or CollectionManager.
type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ObjectStore translates between entities of one model type and the raw
// records of the store underneath.
//
// Reads turn entity-shaped records into entities and pass everything else
// through; writes store a copy of an entity's record. Non-entity values can
// live in the same store.
type ObjectStore struct {
	child datastore.Store
	typ   *model.Type
	log   *zap.SugaredLogger
}

// New wraps child for entities of typ.
func New(child datastore.Store, typ *model.Type, opts ...Option) *ObjectStore {
	o := buildOptions(opts)
	return &ObjectStore{
		child: child,
		typ:   typ,
		log:   o.logger.With("type", typ.Name()),
	}
}

// Type returns the model type the store is bound to.
func (s *ObjectStore) Type() *model.Type { return s.typ }

// Store returns the wrapped store.
func (s *ObjectStore) Store() datastore.Store { return s.child }

// Get returns the value under key. A record carrying the type's key field is
// rebuilt as a *model.Entity from a deep copy; any other value is returned
// as stored. Missing keys yield (nil, nil).
func (s *ObjectStore) Get(ctx context.Context, key datastore.Key) (any, error) {
	v, err := s.child.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	rec, ok := datastore.AsRecord(v)
	if !ok {
		return v, nil
	}
	if _, ok := rec[s.typ.KeyField()]; !ok {
		return v, nil
	}
	s.log.Debugw("rebuilding entity", "key", key)
	return s.typ.WithData(datastore.CloneRecord(rec))
}

// Put stores value under key. Entities of the bound type (or a subtype) are
// stored as a copy of their record, so the caller keeps an independent
// entity; other values are stored as given.
func (s *ObjectStore) Put(ctx context.Context, key datastore.Key, value any) error {
	if e, ok := value.(*model.Entity); ok && e.IsA(s.typ) {
		value = datastore.CloneRecord(e.Record())
	}
	return s.child.Put(ctx, key, value)
}

func (s *ObjectStore) Delete(ctx context.Context, key datastore.Key) error {
	return s.child.Delete(ctx, key)
}

func (s *ObjectStore) Contains(ctx context.Context, key datastore.Key) (bool, error) {
	return s.child.Contains(ctx, key)
}

// Query runs q on the wrapped store and rebuilds each result as an entity
// while iterating. Each call to Query yields a fresh single-pass sequence.
func (s *ObjectStore) Query(ctx context.Context, q *datastore.Query) (iter.Seq2[*model.Entity, error], error) {
	raw, err := s.child.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.entities(raw), nil
}

func (s *ObjectStore) entities(raw iter.Seq2[any, error]) iter.Seq2[*model.Entity, error] {
	return func(yield func(*model.Entity, error) bool) {
		for v, err := range raw {
			var e *model.Entity
			if err == nil {
				e, err = s.entity(v)
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

func (s *ObjectStore) entity(v any) (*model.Entity, error) {
	rec, ok := datastore.AsRecord(v)
	if !ok {
		return nil, errors.NewTypeMismatchError(fmt.Sprintf("stored value %v", v), "record", fmt.Sprintf("%T", v))
	}
	return s.typ.WithData(datastore.CloneRecord(rec))
}

// Collect drains an entity sequence into a slice.
func Collect(seq iter.Seq2[*model.Entity, error]) ([]*model.Entity, error) {
	var out []*model.Entity
	for e, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
