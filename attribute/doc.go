/*
Package attribute defines the field descriptors that make up a model schema.

An Attribute owns no data. Reads and writes go through the record of the
instance passed in as a Holder:

	email := attribute.New(attribute.Required(), attribute.OfType(attribute.String))
	email.Bind(personType, "email")

	_ = email.Set(person, "ada@example.com") // coerce, validate, encode, write
	v, _ := email.Get(person)                // read, fall back to default, decode

Only nil counts as an empty value for required fields; zero numbers and
empty strings are stored as given.
*/
package attribute
