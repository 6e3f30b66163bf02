/*
Package model defines model types and their instances.

A Type is defined once, usually at package level:

	var Person = model.MustDefine("Person",
	    model.KeyType("person"),
	    model.Attr("email", attribute.New(attribute.Required())),
	    model.Attr("age", attribute.New(attribute.OfType(attribute.Int))),
	)

	var Employee = model.MustDefine("Employee",
	    model.Extends(Person),
	    model.Attr("team", attribute.New()),
	)

Person.Key() is the root key /person; instance keys sit beneath it:

	ada, _ := Person.New("ada")          // key /person:ada, defaults set
	_ = ada.Set("email", "ada@example.com")
	same, _ := Person.WithData(ada.Record())

Key types are inherited (Employee above uses "person"). ResetKeyType makes
a type and its subtypes use their own lowercase names again.

An Entity's record is the only copy of its field values; Get and Set go
through it, so the record can be handed to any store as is.
*/
package model
