/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
)

// DirectoryStore keeps ordered lists of member keys under directory keys.
// A directory is stored as a plain list of key strings.
type DirectoryStore struct {
	Shim
}

// NewDirectoryStore wraps child.
func NewDirectoryStore(child Store) *DirectoryStore {
	return &DirectoryStore{Shim{Child: child}}
}

func (d *DirectoryStore) read(ctx context.Context, dir Key) ([]string, bool, error) {
	v, err := d.Child.Get(ctx, dir)
	if err != nil {
		return nil, false, err
	}
	switch tv := v.(type) {
	case []string:
		return append([]string(nil), tv...), true, nil
	case []any:
		// backends that decode JSON hand lists back as []any
		out := make([]string, 0, len(tv))
		for _, e := range tv {
			s, ok := e.(string)
			if !ok {
				return nil, false, fmt.Errorf("directory %s holds a non-key entry %v", dir, e)
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, false, nil
}

// Directory initializes dir as an empty directory unless it already is one.
func (d *DirectoryStore) Directory(ctx context.Context, dir Key) error {
	_, ok, err := d.read(ctx, dir)
	if err != nil || ok {
		return err
	}
	return d.Child.Put(ctx, dir, []string{})
}

// DirectoryRead returns the member keys of dir in insertion order.
func (d *DirectoryStore) DirectoryRead(ctx context.Context, dir Key) ([]Key, error) {
	entries, _, err := d.read(ctx, dir)
	if err != nil {
		return nil, err
	}
	keys := make([]Key, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, NewKey(e))
	}
	return keys, nil
}

// DirectoryAdd appends key to dir unless it is already a member.
func (d *DirectoryStore) DirectoryAdd(ctx context.Context, dir, key Key) error {
	entries, _, err := d.read(ctx, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e == key.String() {
			return nil
		}
	}
	return d.Child.Put(ctx, dir, append(entries, key.String()))
}

// DirectoryRemove drops key from dir. Removing a non-member is a no-op.
func (d *DirectoryStore) DirectoryRemove(ctx context.Context, dir, key Key) error {
	entries, ok, err := d.read(ctx, dir)
	if err != nil || !ok {
		return err
	}
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e == key.String() {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return nil
	}
	return d.Child.Put(ctx, dir, kept)
}
