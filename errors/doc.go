/*
Package errors provides semantic error types for the objectstore library.

The package defines the mapper's error taxonomy with specific types that can be
checked using errors.Is() or the provided helper functions.

Common Errors:

	var (
	    ErrDuplicateAttribute = errors.New("duplicate attribute")   // schema composition
	    ErrRequiredField      = errors.New("required field")        // Attribute.Set
	    ErrTypeCoercion       = errors.New("type coercion failed")  // Attribute.Set
	    ErrTypeMismatch       = errors.New("type mismatch")         // keys and Manager.Put
	    ErrMissingKeyField    = errors.New("missing key field")     // Type.WithData
	)

Usage:

	person, err := people.Get(ctx, "ada")
	if err != nil {
	    return err
	}
	if err := person.Set("email", nil); errors.IsRequiredField(err) {
	    // the field cannot be cleared
	}

Wrapping goes through cockroachdb/errors (errors.Wrap, errors.Wrapf) so that
backend failures keep a stack trace while still matching the sentinels.
*/
package errors
