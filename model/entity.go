package model

import (
	"strings"

	"github.com/google/uuid"
)

// EntityObject is an ordered set of fields. Field names are unique,
// compared case-insensitively.
type EntityObject struct {
	fields []Field
}

// NewEntityObject returns an object holding fields. Later fields replace
// earlier ones with the same name.
func NewEntityObject(fields ...Field) *EntityObject {
	o := &EntityObject{}
	for _, f := range fields {
		o.SetField(f)
	}
	return o
}

// SetField adds f, replacing any field with the same name in place.
func (o *EntityObject) SetField(f Field) {
	for i := range o.fields {
		if strings.EqualFold(o.fields[i].name, f.name) {
			o.fields[i] = f
			return
		}
	}
	o.fields = append(o.fields, f)
}

// Field returns the field named name.
func (o *EntityObject) Field(name string) (Field, bool) {
	for _, f := range o.fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// RemoveField deletes the field named name and reports whether it existed.
func (o *EntityObject) RemoveField(name string) bool {
	for i, f := range o.fields {
		if strings.EqualFold(f.name, name) {
			o.fields = append(o.fields[:i], o.fields[i+1:]...)
			return true
		}
	}
	return false
}

// Fields returns the fields in insertion order. The slice is a copy.
func (o *EntityObject) Fields() []Field {
	if o == nil {
		return nil
	}
	out := make([]Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Len returns the number of fields.
func (o *EntityObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Entity is a versioned, schema-flexible domain object.
type Entity struct {
	EntityObject
	id      Id
	version uuid.UUID
}

// NewEntity returns an empty entity with a fresh version.
func NewEntity(id Id, fields ...Field) *Entity {
	return NewEntityVersion(id, NewVersion(), fields...)
}

// NewEntityVersion returns an entity with an explicit version.
func NewEntityVersion(id Id, version uuid.UUID, fields ...Field) *Entity {
	e := &Entity{id: id, version: version}
	for _, f := range fields {
		e.SetField(f)
	}
	return e
}

// Id returns the entity id.
func (e *Entity) Id() Id { return e.id }

// Version returns the entity version.
func (e *Entity) Version() uuid.UUID { return e.version }

// SetVersion stamps a new version; every mutation should produce one.
func (e *Entity) SetVersion(v uuid.UUID) { e.version = v }

// Candidate returns the (id, version) reference of e.
func (e *Entity) Candidate() CandidateResult {
	return CandidateResult{Id: e.id, Version: e.version}
}
