package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the closed set of value kinds a Field can hold.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindBool
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindLocation
	KindUUID
	KindList
	KindSet
	KindObject
	// KindRaw holds a value that is indexed verbatim, without a type prefix.
	KindRaw
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindBool:     "bool",
	KindInt:      "int",
	KindLong:     "long",
	KindFloat:    "float",
	KindDouble:   "double",
	KindLocation: "location",
	KindUUID:     "uuid",
	KindList:     "list",
	KindSet:      "set",
	KindObject:   "object",
	KindRaw:      "raw",
}

// String returns the kind name.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsNumber reports whether k is one of the numeric kinds.
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindLong || k == KindFloat || k == KindDouble
}

// Location is a geo point.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Field is a named, typed value. Fields are built with the constructors in
// this file only, so the set of kinds is closed. Collection elements are
// fields with an empty name.
type Field struct {
	name  string
	kind  Kind
	value any
}

// Name returns the field name as given by the caller.
func (f Field) Name() string { return f.name }

// Kind returns the value kind.
func (f Field) Kind() Kind { return f.kind }

// Value returns the raw value. Its dynamic type depends on Kind:
// string, bool, int32, int64, float32, float64, Location, uuid.UUID,
// []Field for List and Set, *EntityObject for Object, any for Raw.
func (f Field) Value() any { return f.value }

// IsZero reports whether f was never constructed.
func (f Field) IsZero() bool { return f.kind == 0 }

// String returns a string field.
func String(name, v string) Field { return Field{name: name, kind: KindString, value: v} }

// Bool returns a boolean field.
func Bool(name string, v bool) Field { return Field{name: name, kind: KindBool, value: v} }

// Int returns a 32-bit integer field.
func Int(name string, v int32) Field { return Field{name: name, kind: KindInt, value: v} }

// Long returns a 64-bit integer field.
func Long(name string, v int64) Field { return Field{name: name, kind: KindLong, value: v} }

// Float returns a 32-bit float field.
func Float(name string, v float32) Field { return Field{name: name, kind: KindFloat, value: v} }

// Double returns a 64-bit float field.
func Double(name string, v float64) Field { return Field{name: name, kind: KindDouble, value: v} }

// Geo returns a location field.
func Geo(name string, lat, lon float64) Field {
	return Field{name: name, kind: KindLocation, value: Location{Latitude: lat, Longitude: lon}}
}

// UUID returns a uuid field.
func UUID(name string, v uuid.UUID) Field { return Field{name: name, kind: KindUUID, value: v} }

// Raw returns a field indexed verbatim under its lower-cased name.
func Raw(name string, v any) Field { return Field{name: name, kind: KindRaw, value: v} }

// Object returns a nested object field.
func Object(name string, obj *EntityObject) Field {
	if obj == nil {
		obj = NewEntityObject()
	}
	return Field{name: name, kind: KindObject, value: obj}
}

// List returns an ordered collection field.
func List(name string, elems ...Field) Field {
	out := make([]Field, len(elems))
	copy(out, elems)
	return Field{name: name, kind: KindList, value: out}
}

// Strings is a convenience for a List of string elements.
func Strings(name string, values ...string) Field {
	elems := make([]Field, len(values))
	for i, v := range values {
		elems[i] = String("", v)
	}
	return Field{name: name, kind: KindList, value: elems}
}

// Set returns an unordered collection field. Duplicate elements are dropped;
// the remaining elements keep first-insertion order.
func Set(name string, elems ...Field) Field {
	seen := make(map[string]struct{}, len(elems))
	out := make([]Field, 0, len(elems))
	for _, e := range elems {
		k := elemKey(e)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return Field{name: name, kind: KindSet, value: out}
}

// Elements returns the elements of a List or Set field, nil otherwise.
func (f Field) Elements() []Field {
	if f.kind != KindList && f.kind != KindSet {
		return nil
	}
	return f.value.([]Field)
}

// Object returns the nested object of an Object field, nil otherwise.
func (f Field) Object() *EntityObject {
	if f.kind != KindObject {
		return nil
	}
	return f.value.(*EntityObject)
}

// elemKey is the canonical identity of a collection element.
func elemKey(f Field) string {
	var b strings.Builder
	b.WriteString(f.kind.String())
	b.WriteByte(':')
	switch f.kind {
	case KindList, KindSet:
		b.WriteByte('[')
		for i, e := range f.Elements() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(elemKey(e))
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, e := range f.Object().Fields() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strings.ToLower(e.name))
			b.WriteByte('=')
			b.WriteString(elemKey(e))
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(&b, "%v", f.value)
	}
	return b.String()
}
