/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"strings"

	"github.com/google/uuid"
)

// Key is a hierarchical identifier such as "/Comedy/MontyPython/Actor:JohnCleese".
//
// Each "/"-separated namespace is either a bare name or a "type:name" pair.
// Keys are compared by their canonical string form; there is no case folding.
type Key struct {
	s string
}

// NewKey builds a Key from a path string. Empty segments are dropped and a
// leading slash is added.
func NewKey(s string) Key {
	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return Key{s: "/" + strings.Join(kept, "/")}
}

// KeyWithNamespaces builds a Key from a list of namespaces.
func KeyWithNamespaces(ns []string) Key {
	return NewKey(strings.Join(ns, "/"))
}

// RandomKey returns a top-level key with a random name.
func RandomKey() Key {
	return NewKey(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func (k Key) String() string {
	if k.s == "" {
		return "/"
	}
	return k.s
}

// IsZero reports whether k is the root key.
func (k Key) IsZero() bool {
	return k.s == "" || k.s == "/"
}

// Namespaces returns the "/"-separated components of the key.
func (k Key) Namespaces() []string {
	if k.IsZero() {
		return nil
	}
	return strings.Split(k.s[1:], "/")
}

func (k Key) last() string {
	ns := k.Namespaces()
	if len(ns) == 0 {
		return ""
	}
	return ns[len(ns)-1]
}

// Type is the type tag of the last namespace: "Actor" for "/Actor:JohnCleese",
// empty for "/JohnCleese".
func (k Key) Type() string {
	l := k.last()
	i := strings.LastIndex(l, ":")
	if i < 0 {
		return ""
	}
	return l[:i]
}

// Name is the instance name of the last namespace: "JohnCleese" for
// "/Actor:JohnCleese" and for "/JohnCleese".
func (k Key) Name() string {
	l := k.last()
	return l[strings.LastIndex(l, ":")+1:]
}

// Instance returns the key for an instance named name of the type k names,
// e.g. NewKey("/Actor").Instance("JohnCleese") is "/Actor:JohnCleese".
func (k Key) Instance(name string) Key {
	return NewKey(k.String() + ":" + name)
}

// Child appends a namespace.
func (k Key) Child(ns string) Key {
	return NewKey(k.String() + "/" + ns)
}

// Parent drops the last namespace. The parent of a top-level key is the root key.
func (k Key) Parent() Key {
	ns := k.Namespaces()
	if len(ns) <= 1 {
		return NewKey("/")
	}
	return KeyWithNamespaces(ns[:len(ns)-1])
}

// Path is the collection a key belongs to: its parent followed by its type.
// "/Comedy:MontyPython/Actor:JohnCleese" lives under "/Comedy:MontyPython/Actor".
func (k Key) Path() Key {
	return k.Parent().Child(k.Type())
}

// IsTopLevel reports whether the key has a single namespace.
func (k Key) IsTopLevel() bool {
	return len(k.Namespaces()) == 1
}

// IsAncestorOf reports whether other lives strictly below k.
func (k Key) IsAncestorOf(other Key) bool {
	if k.IsZero() {
		return !other.IsZero()
	}
	return strings.HasPrefix(other.String(), k.String()+"/")
}

// IsDescendantOf reports whether k lives strictly below other.
func (k Key) IsDescendantOf(other Key) bool {
	return other.IsAncestorOf(k)
}

// Reverse returns the key with its namespaces in reverse order.
func (k Key) Reverse() Key {
	ns := k.Namespaces()
	rev := make([]string, len(ns))
	for i, n := range ns {
		rev[len(ns)-1-i] = n
	}
	return KeyWithNamespaces(rev)
}

// Equal compares canonical string forms.
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

// Less orders keys by canonical string form.
func (k Key) Less(other Key) bool {
	return k.String() < other.String()
}
