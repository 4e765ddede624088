package index

import (
	"context"
	"strings"
)

// Action is a bulk operation kind.
type Action string

const (
	ActionIndex  Action = "index"
	ActionDelete Action = "delete"
)

// Operation is one pending bulk write.
type Operation struct {
	Action Action
	Index  string
	Type   string
	ID     string
	// Body is set for ActionIndex only.
	Body Document
}

// BulkRequest is a set of operations committed in one round trip.
type BulkRequest struct {
	Operations []Operation
	// Refresh makes the written documents visible to search before the
	// call returns.
	Refresh bool
}

// ItemResult is the engine's answer for one operation.
type ItemResult struct {
	Action Action
	Index  string
	Type   string
	ID     string
	Status int
	Error  string
}

// Failed reports whether the engine rejected the operation.
func (r ItemResult) Failed() bool { return r.Error != "" }

// BulkResponse holds one result per operation, in request order.
type BulkResponse struct {
	Items []ItemResult
}

// FailedItems returns the rejected items.
func (r *BulkResponse) FailedItems() []ItemResult {
	if r == nil {
		return nil
	}
	var failed []ItemResult
	for _, it := range r.Items {
		if it.Failed() {
			failed = append(failed, it)
		}
	}
	return failed
}

// Executor performs the network calls against a search engine. A delete of
// a missing document is reported as success. CreateIndex and PutMapping
// return an error wrapping ErrAlreadyExists when the engine reports the
// resource exists.
type Executor interface {
	Engine() string
	CreateIndex(ctx context.Context, index string, settings *IndexSettings) error
	PutMapping(ctx context.Context, index, typeName string, mapping Mapping) error
	Bulk(ctx context.Context, req *BulkRequest) (*BulkResponse, error)
	Refresh(ctx context.Context, index string) error
	Health(ctx context.Context) error
}

// QualifiedID is the physical id of a document on engines without mapping
// types.
func QualifiedID(typeName, docID string) string {
	return typeName + idSeparator + docID
}

// SplitQualifiedID reverses QualifiedID. Type names never contain '|'.
func SplitQualifiedID(id string) (typeName, docID string, ok bool) {
	return strings.Cut(id, idSeparator)
}
