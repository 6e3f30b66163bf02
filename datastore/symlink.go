/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"iter"

	"github.com/suparena/objectstore/errors"
)

// LinkSentinel is the final namespace of a stored link value.
const LinkSentinel = "datastore_link"

// SymlinkStore stores links as values: a link to /foo:bar is the string
// "/foo:bar/datastore_link". Get, Put and Query follow links transparently.
type SymlinkStore struct {
	Shim
}

// NewSymlinkStore wraps child.
func NewSymlinkStore(child Store) *SymlinkStore {
	return &SymlinkStore{Shim{Child: child}}
}

func linkValue(source Key) string {
	return source.Child(LinkSentinel).String()
}

// linkTarget returns the key a stored value links to, if it is a link.
func linkTarget(v any) (Key, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return Key{}, false
	}
	k := NewKey(s)
	if k.Name() != LinkSentinel || k.Type() != "" {
		return Key{}, false
	}
	return k.Parent(), true
}

func (s *SymlinkStore) follow(ctx context.Context, v any) (any, error) {
	seen := map[string]bool{}
	for {
		target, ok := linkTarget(v)
		if !ok {
			return v, nil
		}
		if seen[target.String()] {
			return nil, errors.Wrapf(errors.ErrCircularLink, "following %s", target)
		}
		seen[target.String()] = true

		next, err := s.Child.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		v = next
	}
}

// resolve returns the final key a chain of links starting at key points to.
func (s *SymlinkStore) resolve(ctx context.Context, key Key) (Key, error) {
	seen := map[string]bool{key.String(): true}
	for {
		v, err := s.Child.Get(ctx, key)
		if err != nil {
			return Key{}, err
		}
		target, ok := linkTarget(v)
		if !ok {
			return key, nil
		}
		if seen[target.String()] {
			return Key{}, errors.Wrapf(errors.ErrCircularLink, "following %s", target)
		}
		seen[target.String()] = true
		key = target
	}
}

// Link makes target point at source. A source that is itself a link is
// resolved first so chains stay one hop long.
func (s *SymlinkStore) Link(ctx context.Context, source, target Key) error {
	resolved, err := s.resolve(ctx, source)
	if err != nil {
		return err
	}
	if resolved.Equal(target) {
		return errors.Wrapf(errors.ErrCircularLink, "linking %s to itself", target)
	}
	return s.Child.Put(ctx, target, linkValue(resolved))
}

// Get follows links.
func (s *SymlinkStore) Get(ctx context.Context, key Key) (any, error) {
	v, err := s.Child.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.follow(ctx, v)
}

// Put writes through a link to its final target.
func (s *SymlinkStore) Put(ctx context.Context, key Key, value any) error {
	resolved, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}
	return s.Child.Put(ctx, resolved, value)
}

// Query follows links in every result.
func (s *SymlinkStore) Query(ctx context.Context, q *Query) (iter.Seq2[any, error], error) {
	seq, err := s.Child.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return func(yield func(any, error) bool) {
		for v, err := range seq {
			if err == nil {
				v, err = s.follow(ctx, v)
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}, nil
}
