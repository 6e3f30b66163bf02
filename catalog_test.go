/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectstore

import (
	"fmt"
	"testing"

	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/datastore/mock"
	"github.com/suparena/objectstore/model"
)

var (
	testUser    = model.MustDefine("TestUser", model.KeyType("user"), model.Attr("email", attribute.New()))
	testProduct = model.MustDefine("TestProduct", model.Attr("price", attribute.New(attribute.OfType(attribute.Float))))
)

func TestCatalog(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		catalog := NewCatalog()
		store := mock.New()

		err := catalog.Register(NewManager(store, testUser))
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		byName, err := catalog.Get("TestUser")
		if err != nil {
			t.Fatalf("Failed to get by name: %v", err)
		}
		byKeyType, err := catalog.Get("user")
		if err != nil {
			t.Fatalf("Failed to get by key type: %v", err)
		}
		if byName != byKeyType {
			t.Fatal("Expected the same accessor by name and key type")
		}

		forKey, err := catalog.ForKey(datastore.NewKey("/user:ada"))
		if err != nil || forKey != byName {
			t.Fatalf("Expected accessor for /user:ada, got %v, %v", forKey, err)
		}

		names := catalog.List()
		if len(names) != 1 || names[0] != "TestUser" {
			t.Fatalf("Expected [TestUser], got %v", names)
		}

		if err := catalog.Remove("TestUser"); err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}
		if _, err := catalog.Get("user"); err == nil {
			t.Fatal("Expected error after removal")
		}
		if err := catalog.Remove("TestUser"); err == nil {
			t.Fatal("Expected error removing twice")
		}
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		catalog := NewCatalog()
		store := mock.New()

		if err := catalog.Register(NewManager(store, testUser)); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}
		if err := catalog.Register(NewCollectionManager(store, testUser)); err == nil {
			t.Fatal("Expected duplicate registration error")
		}
	})

	t.Run("SharedKeyType", func(t *testing.T) {
		catalog := NewCatalog()
		foo := model.MustDefine("Foo", model.KeyType("foobar"))
		bar := model.MustDefine("Bar", model.Extends(foo))

		if err := catalog.RegisterTypes(mock.New(), []*model.Type{foo, bar}, false); err != nil {
			t.Fatalf("Failed to register a subtype sharing its base's key type: %v", err)
		}

		byKeyType, err := catalog.Get("foobar")
		if err != nil || byKeyType.Type() != foo {
			t.Fatalf("Expected Foo for key type foobar, got %v, %v", byKeyType, err)
		}
		forKey, err := catalog.ForKey(datastore.NewKey("/foobar:x"))
		if err != nil || forKey.Type() != foo {
			t.Fatalf("Expected Foo for /foobar:x, got %v, %v", forKey, err)
		}
		byName, err := catalog.Get("Bar")
		if err != nil || byName.Type() != bar {
			t.Fatalf("Expected Bar by name, got %v, %v", byName, err)
		}

		// the key type falls through to the remaining type
		if err := catalog.Remove("Foo"); err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}
		forKey, err = catalog.ForKey(datastore.NewKey("/foobar:x"))
		if err != nil || forKey.Type() != bar {
			t.Fatalf("Expected Bar for /foobar:x after removing Foo, got %v, %v", forKey, err)
		}
	})

	t.Run("RegisterTypes", func(t *testing.T) {
		catalog := NewCatalog()
		err := catalog.RegisterTypes(mock.New(), []*model.Type{testUser, testProduct}, true)
		if err != nil {
			t.Fatalf("Failed to register types: %v", err)
		}

		a, err := catalog.Get("testproduct")
		if err != nil {
			t.Fatalf("Failed to get product accessor: %v", err)
		}
		if _, ok := a.(*CollectionManager); !ok {
			t.Fatalf("Expected a collection manager, got %T", a)
		}
	})
}

func TestCatalogThreadSafety(t *testing.T) {
	catalog := NewCatalog()
	store := mock.New()
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func(id int) {
			typ := model.MustDefine(fmt.Sprintf("Type%d", id))
			catalog.Register(NewManager(store, typ))
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		go func() {
			catalog.List()
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		<-done
	}

	if names := catalog.List(); len(names) != 10 {
		t.Fatalf("Expected 10 accessors, got %d", len(names))
	}
}
