/*
Package registry resolves model schemas and keeps a catalog of model types.

Schema composition runs once per type, when the type is defined:

	base, _ := registry.Compose(baseType, nil, []registry.Declaration{
	    {Name: "created", Attr: attribute.New(attribute.OfType(attribute.Time))},
	})
	person, _ := registry.Compose(personType, []*registry.Schema{base}, []registry.Declaration{
	    {Name: "email", Attr: attribute.New(attribute.Required())},
	})

Bases are merged in declaration order. A field name reached through two
bases must trace back to the same declaring type, and a type may not declare
a name it already inherits. Both cases fail with a DuplicateAttributeError;
there is no override mechanism.

Types is a thread-safe catalog keyed by key type, used to find the model
type behind a stored key:

	types := registry.NewTypes[*model.Type]()
	types.MustRegister(Person)
	t, err := types.ByKeyType(key.Type())
*/
package registry
