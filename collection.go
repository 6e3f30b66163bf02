/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectstore

import (
	"context"
	"iter"

	"go.uber.org/zap"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/model"
)

// Collection is a persistent, ordered list of instances kept under a
// collection key. Members live at key.Instance(name); a member whose own key
// is elsewhere is reached through a symlink.
type Collection struct {
	key      datastore.Key
	typ      *model.Type
	symlinks *datastore.SymlinkStore
	dirs     *datastore.DirectoryStore
	log      *zap.SugaredLogger
}

// NewCollection creates a collection of typ instances under key in store.
func NewCollection(key datastore.Key, store datastore.Store, typ *model.Type, opts ...Option) *Collection {
	o := buildOptions(opts)
	symlinks := datastore.NewSymlinkStore(store)
	return &Collection{
		key:      key,
		typ:      typ,
		symlinks: symlinks,
		dirs:     datastore.NewDirectoryStore(symlinks),
		log:      o.logger.With("collection", key.String()),
	}
}

// Key returns the collection key.
func (c *Collection) Key() datastore.Key { return c.key }

// Keys returns the member keys in insertion order.
func (c *Collection) Keys(ctx context.Context) ([]datastore.Key, error) {
	return c.dirs.DirectoryRead(ctx, c.key)
}

// Instances yields every member as an entity, in insertion order. A member
// whose data is gone yields a NotFoundError.
func (c *Collection) Instances(ctx context.Context) iter.Seq2[*model.Entity, error] {
	return func(yield func(*model.Entity, error) bool) {
		keys, err := c.Keys(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, key := range keys {
			e, err := c.instance(ctx, key)
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

func (c *Collection) instance(ctx context.Context, key datastore.Key) (*model.Entity, error) {
	v, err := c.dirs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.NewNotFoundError(c.typ.Name(), key.String())
	}
	rec, ok := datastore.AsRecord(v)
	if !ok {
		return nil, errors.NewTypeMismatchError("member "+key.String(), "record", "non-record value")
	}
	return c.typ.WithData(datastore.CloneRecord(rec))
}

func (c *Collection) memberKey(instanceKey datastore.Key) datastore.Key {
	return c.key.Instance(instanceKey.Name())
}

// Add appends the instance stored under instanceKey.
func (c *Collection) Add(ctx context.Context, instanceKey datastore.Key) error {
	member := c.memberKey(instanceKey)
	if !instanceKey.Equal(member) {
		c.log.Debugw("linking member", "source", instanceKey, "target", member)
		if err := c.symlinks.Link(ctx, instanceKey, member); err != nil {
			return err
		}
	}
	return c.dirs.DirectoryAdd(ctx, c.key, member)
}

// AddEntity appends e by its key.
func (c *Collection) AddEntity(ctx context.Context, e *model.Entity) error {
	return c.Add(ctx, e.Key())
}

// Remove drops the instance stored under instanceKey from the collection.
// The member entry is deleted, so when the member key is the instance key
// the instance data goes with it.
func (c *Collection) Remove(ctx context.Context, instanceKey datastore.Key) error {
	member := c.memberKey(instanceKey)
	if err := c.symlinks.Delete(ctx, member); err != nil {
		return err
	}
	return c.dirs.DirectoryRemove(ctx, c.key, member)
}

// CollectionManager is a Manager that also keeps every stored instance in
// the collection under the type's root key. Names are qualified the same
// way as by Manager, so member keys and instance keys coincide.
type CollectionManager struct {
	*Manager
	collection *Collection
}

// NewCollectionManager creates a collection manager for typ over store.
func NewCollectionManager(store datastore.Store, typ *model.Type, opts ...Option) *CollectionManager {
	return &CollectionManager{
		Manager:    NewManager(store, typ, opts...),
		collection: NewCollection(typ.Key(), store, typ, opts...),
	}
}

// CollectionKey returns the key the collection is kept under.
func (m *CollectionManager) CollectionKey() datastore.Key { return m.collection.Key() }

// Collection returns the managed collection.
func (m *CollectionManager) Collection() *Collection { return m.collection }

// Instances yields the members in insertion order.
func (m *CollectionManager) Instances(ctx context.Context) iter.Seq2[*model.Entity, error] {
	return m.collection.Instances(ctx)
}

// Put stores e and adds it to the collection.
func (m *CollectionManager) Put(ctx context.Context, e *model.Entity) error {
	if err := m.Manager.Put(ctx, e); err != nil {
		return err
	}
	return m.collection.AddEntity(ctx, e)
}

// Delete removes the instance called name from the collection and the store.
func (m *CollectionManager) Delete(ctx context.Context, name string) error {
	key, err := m.Key(name)
	if err != nil {
		return err
	}
	return m.DeleteKey(ctx, key)
}

// DeleteKey removes the instance stored under key from the collection and the store.
func (m *CollectionManager) DeleteKey(ctx context.Context, key datastore.Key) error {
	key, err := m.ResolveKey(key)
	if err != nil {
		return err
	}
	if err := m.collection.Remove(ctx, key); err != nil {
		return err
	}
	return m.objects.Delete(ctx, key)
}

// RemoveAll deletes every instance of the type and drops each from the
// collection. Like Manager.RemoveAll it is not atomic.
func (m *CollectionManager) RemoveAll(ctx context.Context) (int, error) {
	return m.removeAll(ctx, m.DeleteKey)
}
