// Package memory is an in-process search engine for tests and local runs.
// It keeps the executor contract of the network engines: typeless indices,
// documents keyed by qualified id, missing deletes reported as success.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"sync"

	"github.com/ncobase/queryindex/index"
)

// EngineName is the engine identifier.
const EngineName = "memory"

type memIndex struct {
	settings index.IndexSettings
	mapping  index.Mapping
	types    map[string]struct{}
	docs     map[string]index.Document
}

// Executor stores documents in maps guarded by a mutex.
type Executor struct {
	mu      sync.RWMutex
	indices map[string]*memIndex
	down    error
}

var _ index.Executor = (*Executor)(nil)

// NewExecutor returns an empty engine.
func NewExecutor() *Executor {
	return &Executor{indices: make(map[string]*memIndex)}
}

func (e *Executor) Engine() string { return EngineName }

func (e *Executor) CreateIndex(_ context.Context, name string, settings *index.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.down != nil {
		return e.down
	}
	if _, ok := e.indices[name]; ok {
		return fmt.Errorf("memory: index %s: %w", name, index.ErrAlreadyExists)
	}
	ix := newMemIndex()
	if settings != nil {
		ix.settings = *settings
	}
	e.indices[name] = ix
	return nil
}

func (e *Executor) PutMapping(_ context.Context, name, typeName string, mapping index.Mapping) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.down != nil {
		return e.down
	}
	ix, ok := e.indices[name]
	if !ok {
		return fmt.Errorf("memory: index %s not found", name)
	}
	ix.mapping = mapping
	ix.types[typeName] = struct{}{}
	return nil
}

// Bulk applies operations in order. Index operations create missing
// indices the way the network engines do.
func (e *Executor) Bulk(_ context.Context, req *index.BulkRequest) (*index.BulkResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.down != nil {
		return nil, e.down
	}
	res := &index.BulkResponse{Items: make([]index.ItemResult, 0, len(req.Operations))}
	for _, op := range req.Operations {
		item := index.ItemResult{Action: op.Action, Index: op.Index, Type: op.Type, ID: op.ID}
		key := index.QualifiedID(op.Type, op.ID)

		switch op.Action {
		case index.ActionIndex:
			ix, ok := e.indices[op.Index]
			if !ok {
				ix = newMemIndex()
				e.indices[op.Index] = ix
			}
			status := http.StatusCreated
			if _, exists := ix.docs[key]; exists {
				status = http.StatusOK
			}
			ix.docs[key] = copyDocument(op.Body)
			item.Status = status
		case index.ActionDelete:
			item.Status = http.StatusNotFound
			if ix, ok := e.indices[op.Index]; ok {
				if _, exists := ix.docs[key]; exists {
					delete(ix.docs, key)
					item.Status = http.StatusOK
				}
			}
		default:
			item.Status = http.StatusBadRequest
			item.Error = fmt.Sprintf("unsupported action %q", op.Action)
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func (e *Executor) Refresh(_ context.Context, name string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.down != nil {
		return e.down
	}
	if _, ok := e.indices[name]; !ok {
		return fmt.Errorf("memory: index %s not found", name)
	}
	return nil
}

func (e *Executor) Health(context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.down
}

// SetDown makes every call fail with err until SetDown(nil).
func (e *Executor) SetDown(err error) {
	e.mu.Lock()
	e.down = err
	e.mu.Unlock()
}

// Get returns a copy of the document typeName/id of index name.
func (e *Executor) Get(name, typeName, id string) (index.Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix, ok := e.indices[name]
	if !ok {
		return nil, false
	}
	doc, ok := ix.docs[index.QualifiedID(typeName, id)]
	if !ok {
		return nil, false
	}
	return copyDocument(doc), true
}

// Count returns the number of documents in index name.
func (e *Executor) Count(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if ix, ok := e.indices[name]; ok {
		return len(ix.docs)
	}
	return 0
}

// Mapping returns the last mapping put on index name.
func (e *Executor) Mapping(name string) (index.Mapping, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix, ok := e.indices[name]
	if !ok || ix.mapping == nil {
		return nil, false
	}
	return ix.mapping, true
}

// Indices returns the index names, sorted.
func (e *Executor) Indices() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indices))
	for name := range e.indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchExact returns the ids of the documents of typeName whose field
// equals value, sorted.
func (e *Executor) MatchExact(name, typeName, field string, value any) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix, ok := e.indices[name]
	if !ok {
		return nil
	}
	var ids []string
	for key, doc := range ix.docs {
		t, id, _ := index.SplitQualifiedID(key)
		if t != typeName {
			continue
		}
		if v, present := doc[field]; present && reflect.DeepEqual(v, value) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func newMemIndex() *memIndex {
	return &memIndex{
		types: make(map[string]struct{}),
		docs:  make(map[string]index.Document),
	}
}

func copyDocument(doc index.Document) index.Document {
	out := make(index.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
