package model

import "github.com/google/uuid"

// ApplicationScope identifies a tenant. All physical index names and
// document ids are namespaced under it.
type ApplicationScope struct {
	Application Id `json:"application"`
}

// NewApplicationScope returns the scope of application app.
func NewApplicationScope(app Id) ApplicationScope {
	return ApplicationScope{Application: app}
}

// IndexScope identifies a logical collection within a tenant, e.g. the
// users owned by an organization.
type IndexScope struct {
	Owner Id     `json:"owner"`
	Name  string `json:"name"`
}

// NewIndexScope returns the collection name owned by owner.
func NewIndexScope(owner Id, name string) IndexScope {
	return IndexScope{Owner: owner, Name: name}
}

// CandidateResult references one indexed version of an entity, as returned
// by a query against the index.
type CandidateResult struct {
	Id      Id        `json:"id"`
	Version uuid.UUID `json:"version"`
}
