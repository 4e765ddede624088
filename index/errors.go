package index

import (
	"errors"
	"fmt"

	"github.com/ncobase/queryindex/ecode"
)

var (
	// ErrAlreadyExists is returned by executors when an index or mapping
	// being created is already present. Registration treats it as success.
	ErrAlreadyExists = errors.New(ecode.AlreadyExist("resource"))
	// ErrNilExecutor is returned when no executor is supplied.
	ErrNilExecutor = errors.New(ecode.FieldIsRequired("executor"))
)

// InvalidScopeError reports an application or index scope that cannot be
// turned into a physical name.
type InvalidScopeError struct {
	Field  string
	Reason string
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("index: invalid scope: %s %s", e.Field, e.Reason)
}

// ValidationError reports a malformed entity or entity reference.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("index: invalid entity: %s %s", e.Field, e.Reason)
}

// SchemaError reports a failed index creation or type registration.
type SchemaError struct {
	Index string
	Type  string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("index: %s for index %q: %v", ecode.Failed("initialization"), e.Index, e.Err)
	}
	return fmt.Sprintf("index: %s for type %q in index %q: %v", ecode.Failed("registration"), e.Type, e.Index, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// BulkWriteError reports a commit that did not fully succeed. Failed holds
// the rejected items; Err holds the transport failure, if any.
type BulkWriteError struct {
	Message string
	Failed  []ItemResult
	Err     error
}

func (e *BulkWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("index: %s: %v", e.Message, e.Err)
	}
	return "index: " + e.Message
}

func (e *BulkWriteError) Unwrap() error { return e.Err }
