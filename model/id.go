package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Id identifies an entity independent of its version.
type Id struct {
	Type string    `json:"type" validate:"required"`
	UUID uuid.UUID `json:"uuid"`
}

// NewId returns an Id with a fresh time-based uuid.
func NewId(typ string) Id {
	return Id{Type: typ, UUID: NewVersion()}
}

// IsZero reports whether the id carries neither a type nor a uuid.
func (id Id) IsZero() bool {
	return id.Type == "" && id.UUID == uuid.Nil
}

// String returns "uuid:type".
func (id Id) String() string {
	return id.UUID.String() + ":" + id.Type
}

// ParseId parses the "uuid:type" form produced by String.
func ParseId(s string) (Id, error) {
	raw, typ, ok := strings.Cut(s, ":")
	if !ok || typ == "" {
		return Id{}, fmt.Errorf("model: id %q is not in uuid:type form", s)
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return Id{}, fmt.Errorf("model: id %q: %w", s, err)
	}
	return Id{Type: typ, UUID: u}, nil
}

// NewVersion returns a time-ordered version uuid.
func NewVersion() uuid.UUID {
	v, err := uuid.NewUUID()
	if err != nil {
		// clock sequence unavailable, fall back to v7 which needs no node id
		return uuid.Must(uuid.NewV7())
	}
	return v
}

// IsTimeBased reports whether u is a time-ordered uuid (v1, v6 or v7).
func IsTimeBased(u uuid.UUID) bool {
	switch u.Version() {
	case 1, 6, 7:
		return true
	}
	return false
}
