/*
Package datastore defines the key-value boundary the object mapper is built on.

Keys are hierarchical paths of "type:name" namespaces:

	k := datastore.NewKey("/Comedy:MontyPython/Actor:JohnCleese")
	k.Type()   // "Actor"
	k.Name()   // "JohnCleese"
	k.Path()   // "/Comedy:MontyPython/Actor"
	k.Parent() // "/Comedy:MontyPython"

The Store interface is deliberately small:

	type Store interface {
	    Get(ctx context.Context, key Key) (any, error)
	    Put(ctx context.Context, key Key, value any) error
	    Delete(ctx context.Context, key Key) error
	    Contains(ctx context.Context, key Key) (bool, error)
	    Query(ctx context.Context, q *Query) (iter.Seq2[any, error], error)
	}

A Query selects the values stored under one collection path and supports
filters, orders, limit and offset. Query.Apply evaluates a query over any
sequence, so backends without a native query engine stay small.

Shims:
  - SymlinkStore stores links as values and follows them on Get, Put and Query
  - DirectoryStore keeps ordered member lists under directory keys

Implementations:
  - mock: in-memory store for tests and local use
  - sqlstore: SQLite store with JSON-encoded values
  - ddb: DynamoDB store keyed by collection path and key
*/
package datastore
