// Package view renders records as JSON objects restricted to a named
// serialization group.
package view

import (
	"bytes"
	"encoding/json"
)

// Group names a serialization context such as "categorie:read".
type Group string

// Projector is implemented by records that can render themselves for a group.
type Projector interface {
	Project(g Group) *Object
}

// Field declares one output property of T and the groups exposing it.
type Field[T any] struct {
	Name   string
	Groups []Group
	Value  func(T) any
}

func (f Field[T]) in(g Group) bool {
	for _, candidate := range f.Groups {
		if candidate == g {
			return true
		}
	}
	return false
}

// Table is the ordered property list of a record type.
type Table[T any] []Field[T]

// Project renders rec with the fields of t that belong to g. Nested
// Projector values are rendered with the same group.
func (t Table[T]) Project(rec T, g Group) *Object {
	obj := &Object{}
	for _, f := range t {
		if !f.in(g) {
			continue
		}
		v := f.Value(rec)
		if nested, ok := v.(Projector); ok {
			v = nested.Project(g)
		}
		obj.Set(f.Name, v)
	}
	return obj
}

// Fields lists the property names t exposes for g, in output order.
func (t Table[T]) Fields(g Group) []string {
	var names []string
	for _, f := range t {
		if f.in(g) {
			names = append(names, f.Name)
		}
	}
	return names
}

// ProjectAll renders every item for g. The result is never nil so empty
// collections encode as [].
func ProjectAll[T Projector](items []T, g Group) []*Object {
	out := make([]*Object, 0, len(items))
	for _, item := range items {
		out = append(out, item.Project(g))
	}
	return out
}

// Object is a JSON object that keeps insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// Set adds or replaces key.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
