/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/objectstore/attribute"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/serialize"
)

var Model = MustDefine("Model")

func TestConstructWithKey(t *testing.T) {
	for _, s := range []string{"/model:foo", "/foo:bar/model:foo", "/a/model:biz"} {
		key := datastore.NewKey(s)
		e, err := Model.NewWithKey(key)
		require.NoError(t, err)
		assert.Equal(t, key, e.Key())
		assert.Equal(t, s, e.Record()[DefaultKeyField])
	}

	for _, s := range []string{"/foo:bar", "/model:foo/bar", "/model:foo/bar:biz", "/Model:foo", "/Foo:bar/Model:foo"} {
		_, err := Model.NewWithKey(datastore.NewKey(s))
		require.Error(t, err, s)
		assert.True(t, errors.IsTypeMismatch(err), s)
	}
}

func TestConstructWithName(t *testing.T) {
	e, err := Model.New("foo")
	require.NoError(t, err)
	assert.Equal(t, datastore.NewKey("/model:foo"), e.Key())

	e, err = Model.New("bar")
	require.NoError(t, err)
	assert.Equal(t, datastore.NewKey("/model:bar"), e.Key())

	for _, bad := range []string{"", "a/b"} {
		_, err := Model.New(bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, "model", Model.KeyType())
	assert.Equal(t, datastore.NewKey("/model"), Model.Key())

	e, err := Model.New("foo")
	require.NoError(t, err)
	assert.Equal(t, Model.Key().Instance("foo"), e.Key())
}

func TestFooBarScenario(t *testing.T) {
	foo := MustDefine("Foo", KeyType("foo"), Attr("bar", attribute.New()))

	e, err := foo.WithData(datastore.Record{"key": "/foo:x", "bar": "hello"})
	require.NoError(t, err)
	v, err := e.Get("bar")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	e, err = foo.New("x")
	require.NoError(t, err)
	v, err = e.Get("bar")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAttributesReadFromRecord(t *testing.T) {
	foo := MustDefine("Foo", Attr("foo", attribute.New(attribute.WithDefault("biz"))))

	e, err := foo.New("foo")
	require.NoError(t, err)
	assert.Equal(t, "biz", e.Record()["foo"])

	v, _ := e.Get("foo")
	assert.Equal(t, "biz", v)

	e.Record()["foo"] = "bar"
	v, _ = e.Get("foo")
	assert.Equal(t, "bar", v)

	require.NoError(t, e.Set("foo", "baz"))
	assert.Equal(t, "baz", e.Record()["foo"])

	_, err = e.Get("missing")
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(e.Set("missing", 1)))
}

func TestKeyTypeInheritance(t *testing.T) {
	foo := MustDefine("Foo", Extends(Model))
	bar := MustDefine("Bar", Extends(foo))
	assert.Equal(t, "foo", foo.KeyType())
	assert.Equal(t, "bar", bar.KeyType())

	foo = MustDefine("Foo", Extends(Model), KeyType("foobar"))
	bar = MustDefine("Bar", Extends(foo))
	assert.Equal(t, "foobar", foo.KeyType())
	assert.Equal(t, "foobar", bar.KeyType())

	bar = MustDefine("Bar", Extends(foo), ResetKeyType())
	biz := MustDefine("Biz", Extends(bar))
	assert.Equal(t, "bar", bar.KeyType())
	assert.Equal(t, "biz", biz.KeyType())
}

func TestKeyInheritanceKeyType(t *testing.T) {
	a := MustDefine("A", Extends(Model), KeyType("aaa"))
	b := MustDefine("B", Extends(a))
	c := MustDefine("C", Extends(b), ResetKeyType())
	d := MustDefine("D", Extends(c))

	assert.Equal(t, datastore.NewKey("/aaa"), a.Key())
	assert.Equal(t, datastore.NewKey("/aaa"), b.Key())
	assert.Equal(t, datastore.NewKey("/c"), c.Key())
	assert.Equal(t, datastore.NewKey("/d"), d.Key())

	for typ, expected := range map[*Type]string{a: "/aaa:x", b: "/aaa:x", c: "/c:x", d: "/d:x"} {
		e, err := typ.New("x")
		require.NoError(t, err)
		assert.Equal(t, datastore.NewKey(expected), e.Key())
	}
}

func TestKeyTypeFollowsC3Order(t *testing.T) {
	a := MustDefine("A", KeyType("a"))
	b := MustDefine("B", Extends(a))
	c := MustDefine("C", Extends(a), KeyType("c"))
	d := MustDefine("D", Extends(b, c))

	// C is a direct base of D, so its tag wins over the shared ancestor's
	assert.Equal(t, "c", d.KeyType())
	assert.Equal(t, "a", b.KeyType())

	e := MustDefine("E", Extends(a), KeyField("id"))
	f := MustDefine("F", Extends(b, e))
	assert.Equal(t, "id", f.KeyField())
	assert.Equal(t, "a", f.KeyType())

	// A before B while B derives from A has no consistent order
	_, err := Define("Bad", Extends(a, b))
	assert.True(t, errors.IsValidationError(err))
}

func TestIsA(t *testing.T) {
	foo := MustDefine("Foo", Extends(Model))
	bar := MustDefine("Bar", Extends(foo))
	other := MustDefine("Other")

	assert.True(t, bar.IsA(bar))
	assert.True(t, bar.IsA(foo))
	assert.True(t, bar.IsA(Model))
	assert.False(t, foo.IsA(bar))
	assert.False(t, bar.IsA(other))

	e, err := bar.New("x")
	require.NoError(t, err)
	assert.True(t, e.IsA(foo))
	assert.False(t, e.IsA(other))
}

func TestUpdateData(t *testing.T) {
	data := datastore.Record{"key": "/model:foo", "foo": "bar"}
	e, err := Model.WithData(data)
	require.NoError(t, err)
	assert.Equal(t, data, e.Record())

	data2 := datastore.Record{"foo": "biz", "bar": "biz"}
	e.UpdateData(data2)
	assert.Equal(t, datastore.Record{"key": "/model:foo", "foo": "biz", "bar": "biz"}, e.Record())
}

func TestUpdateAttributes(t *testing.T) {
	a := MustDefine("A", Attr("foo", attribute.New()), Attr("bar", attribute.New()))

	key := "/a:foo"
	e, err := a.WithData(datastore.Record{"key": key, "foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, datastore.Record{"key": key, "foo": "bar", "bar": nil}, e.Record())

	require.NoError(t, e.UpdateAttributes(datastore.Record{"foo": "biz", "bar": "biz", "biz": "baz"}))
	assert.Equal(t, datastore.Record{"key": key, "foo": "biz", "bar": "biz"}, e.Record())

	require.NoError(t, e.UpdateAttributes(datastore.Record{"bar": "baz", "biz": "foo"}))
	assert.Equal(t, datastore.Record{"key": key, "foo": "biz", "bar": "baz"}, e.Record())
}

func TestUpdateAttributesRederivesKey(t *testing.T) {
	a := MustDefine("A", Attr("foo", attribute.New()))
	e, err := a.New("one")
	require.NoError(t, err)

	require.NoError(t, e.UpdateAttributes(datastore.Record{"key": "/a:two", "foo": "x"}))
	assert.Equal(t, datastore.NewKey("/a:two"), e.Key())
	assert.Equal(t, "/a:two", e.Record()["key"])

	err = e.UpdateAttributes(datastore.Record{"key": "/b:three", "foo": "y"})
	assert.True(t, errors.IsTypeMismatch(err))
	assert.Equal(t, datastore.NewKey("/a:two"), e.Key())
	assert.Equal(t, "x", e.Record()["foo"])
}

func TestUpdateAttributesValidatesAllOrNothing(t *testing.T) {
	a := MustDefine("A",
		Attr("name", attribute.New()),
		Attr("email", attribute.New(attribute.Required())),
		Attr("age", attribute.New(attribute.OfType(attribute.Int))),
	)
	e, err := a.New("x")
	require.NoError(t, err)
	before := datastore.CloneRecord(e.Record())

	err = e.UpdateAttributes(datastore.Record{"name": "ada", "email": nil})
	assert.True(t, errors.IsRequiredField(err))
	assert.Equal(t, before, e.Record())

	err = e.UpdateAttributes(datastore.Record{"name": "ada", "age": "old"})
	assert.True(t, errors.IsTypeCoercion(err))
	assert.Equal(t, before, e.Record())

	require.NoError(t, e.UpdateAttributes(datastore.Record{"name": "ada", "email": "a@b.c", "age": "36"}))
	age, _ := e.Get("age")
	assert.Equal(t, int64(36), age)
}

func TestWithData(t *testing.T) {
	for _, s := range []string{"/model:foo", "/foo:bar/model:biz", "/a/model:biz"} {
		e, err := Model.WithData(datastore.Record{"key": s})
		require.NoError(t, err)
		assert.Equal(t, datastore.NewKey(s), e.Key())
		assert.Same(t, Model, e.Type())
	}

	for _, s := range []string{"/foo:bar", "/model:foo/foo", "/model:foo/foo:bar"} {
		_, err := Model.WithData(datastore.Record{"key": s})
		assert.True(t, errors.IsTypeMismatch(err), s)
	}

	_, err := Model.WithData(datastore.Record{"foo": "bar"})
	assert.True(t, errors.IsMissingKeyField(err))

	_, err = Model.WithData(datastore.Record{"key": 12})
	assert.True(t, errors.IsValidationError(err))

	data := datastore.Record{"key": "/model:foo", "foo": "bar"}
	e, err := Model.WithData(data)
	require.NoError(t, err)
	assert.Equal(t, data, e.Record())
}

func TestWithDifferentKeyField(t *testing.T) {
	foo := MustDefine("Foo", KeyField("biz"))
	e, err := foo.WithData(datastore.Record{"biz": "/foo:bar"})
	require.NoError(t, err)
	assert.Equal(t, datastore.NewKey("/foo:bar"), e.Key())

	_, err = foo.WithData(datastore.Record{"key": "/foo:bar"})
	assert.True(t, errors.IsMissingKeyField(err))

	sub := MustDefine("Sub", Extends(foo))
	assert.Equal(t, "biz", sub.KeyField())
	assert.Equal(t, DefaultKeyField, Model.KeyField())
}

func TestRoundTrip(t *testing.T) {
	person := MustDefine("Person",
		Attr("email", attribute.New(attribute.Required())),
		Attr("age", attribute.New(attribute.OfType(attribute.Int), attribute.WithDefault(int64(0)))),
		Attr("born", attribute.New(attribute.OfType(attribute.Time), attribute.WithSerializer(serialize.DateTime))),
		Attr("tags", attribute.New(attribute.OfType(attribute.Any), attribute.WithSerializer(serialize.JSON))),
	)

	e, err := person.New("ada")
	require.NoError(t, err)
	require.NoError(t, e.Set("email", "ada@example.com"))
	require.NoError(t, e.Set("born", time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, e.Set("tags", []string{"math"}))

	again, err := person.WithData(e.Record())
	require.NoError(t, err)
	assert.Equal(t, e.Record(), again.Record())
	assert.Equal(t, e.Key(), again.Key())

	tags, err := again.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"math"}, tags)
}

func TestSchemaComposition(t *testing.T) {
	m1 := MustDefine("Model1", Attr("foo", attribute.New()))

	_, err := Define("Model2", Extends(m1), Attr("foo", attribute.New()))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateAttribute(err))
	assert.Contains(t, err.Error(), "Model1")
	assert.Contains(t, err.Error(), "Model2")

	m2 := MustDefine("Model2", Extends(m1), Attr("bar", attribute.New()))
	assert.Equal(t, []string{"foo", "bar"}, m2.Fields())

	a, ok := m2.Attribute("foo")
	require.True(t, ok)
	assert.Same(t, m1, a.Owner())

	_, err = Define("")
	assert.True(t, errors.IsValidationError(err))

	_, err = Define("Broken", Extends(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestEntityFormatting(t *testing.T) {
	foo := MustDefine("Foo")
	e, err := foo.WithData(datastore.Record{"key": "/foo:bar", "foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, "<Foo /foo:bar>", e.String())
	assert.Contains(t, e.GoString(), "Foo.WithData(")
}

func TestClone(t *testing.T) {
	a := MustDefine("A", Attr("list", attribute.New(attribute.OfType(attribute.Any))))
	e, err := a.New("x")
	require.NoError(t, err)
	require.NoError(t, e.Set("list", []any{"a"}))

	c := e.Clone()
	c.Record()["list"].([]any)[0] = "b"
	v, _ := e.Get("list")
	assert.Equal(t, []any{"a"}, v)
}
