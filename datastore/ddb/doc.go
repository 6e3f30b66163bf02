/*
Package ddb provides a DynamoDB implementation of datastore.Store.

All values live in one table with a string partition key PK and a string sort
key SK. A value stored under /org:acme/person:ada becomes the item

	PK         = "/org:acme/person"    // the key's collection path
	SK         = "/org:acme/person:ada"
	EntityType = "person"
	Data       = <the value, marshaled with attributevalue>

so that a collection query is a single-partition Query on PK. Filters, orders
and limits of a datastore.Query are evaluated over the decoded values after
the partition is read.

Paging and retries are configurable:

	client, err := ddb.NewClient(ctx, ddb.ClientConfig{Region: "eu-west-1"})
	store := ddb.New(client, "objects",
	    ddb.WithPageSize(25),
	    ddb.WithMaxRetries(3),
	    ddb.WithProgressHandler(func(p ddb.Progress) {
	        log.Printf("Read %d items from %s", p.ItemsProcessed, p.Path)
	    }),
	)

Throttling and transient service errors are retried inside the store; all
other errors are returned to the caller.
*/
package ddb
