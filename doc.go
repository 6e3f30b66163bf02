/*
Package objectstore maps typed model instances onto a generic key-value store.

Model types are defined with the model package; each instance is addressed by
a hierarchical key (/person:ada) and persisted as a plain record whose "key"
field holds that key. The store underneath only ever sees records.

The layers, from the store up:
  - ObjectStore translates records to entities on reads and entities to
    record copies on writes, leaving non-entity values alone
  - Manager binds an ObjectStore to one type: it turns bare names into keys,
    refuses entities of other types and can remove every instance
  - Collection and CollectionManager keep an ordered membership list next
    to the instances, using the store's symlink and directory shims

Basic Usage:

	var Person = model.MustDefine("Person",
	    model.Attr("email", attribute.New(attribute.Required())),
	)

	people := objectstore.NewManager(mock.New(), Person)

	ada, _ := Person.New("ada")
	_ = ada.Set("email", "ada@example.com")
	_ = people.Put(ctx, ada)

	again, _ := people.Get(ctx, "ada")
	seq, _ := people.Query(ctx, people.InitQuery().OrderBy("-email"))
	for e, err := range seq {
	    ...
	}

The mapper is synchronous: it adds no caching, locking or background work
on top of the store. RemoveAll is a query followed by deletes and is not
atomic.

Backends live under datastore: mock (in memory), sqlstore (SQLite) and ddb
(DynamoDB).
*/
package objectstore
