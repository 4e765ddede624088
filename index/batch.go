package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/ecode"
	"github.com/ncobase/queryindex/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle state of a Batch.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateFlushing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateFlushing:
		return "flushing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ShouldFlush reports whether the count-th call triggers an automatic
// commit. A threshold of zero or less disables auto-flush.
func ShouldFlush(count, threshold int) bool {
	return threshold > 0 && count > 0 && count%threshold == 0
}

// Batch accumulates index and delete operations for one physical index and
// commits them in bulk. A Batch is not safe for concurrent use; callers
// ingesting in parallel use one batch per goroutine.
type Batch struct {
	index     string
	exec      Executor
	registrar *Registrar
	threshold int
	refresh   bool
	opts      options

	// ops holds pending operations in order; superseded entries are nil.
	ops     []*Operation
	pending map[string]int
	live    int
	count   int
	state   State
}

func newBatch(indexName string, exec Executor, registrar *Registrar, threshold int, refresh bool, o options) *Batch {
	return &Batch{
		index:     indexName,
		exec:      exec,
		registrar: registrar,
		threshold: threshold,
		refresh:   refresh,
		opts:      o,
		pending:   make(map[string]int),
	}
}

// Index queues e for indexing under scope. The type of scope is registered
// first if needed. A pending index operation for the same document is
// replaced.
func (b *Batch) Index(ctx context.Context, scope model.IndexScope, e *model.Entity) error {
	typeName, err := TypeName(scope)
	if err != nil {
		b.opts.collector.IndexOperation(string(ActionIndex), err)
		return err
	}
	if err := ValidateEntity(e); err != nil {
		b.opts.collector.IndexOperation(string(ActionIndex), err)
		return err
	}
	if err := b.registrar.EnsureType(ctx, typeName); err != nil {
		b.opts.collector.IndexOperation(string(ActionIndex), err)
		return err
	}

	body := MapEntity(e)
	body[FieldDocType] = typeName
	docID := DocID(e.Id(), e.Version())

	if b.opts.logger.IsDebug() {
		b.opts.logger.WithContextFields(ctx, logrus.Fields{
			"index":    b.index,
			"type":     typeName,
			"id":       docID,
			"document": b.opts.logger.Desensitize(body),
		}).Debug("queued index operation")
	}

	b.add(Operation{Action: ActionIndex, Index: b.index, Type: typeName, ID: docID, Body: body})
	b.opts.collector.IndexOperation(string(ActionIndex), nil)
	return b.maybeFlush(ctx)
}

// Deindex queues the removal of one entity version from scope. Removing a
// document that does not exist is not an error.
func (b *Batch) Deindex(ctx context.Context, scope model.IndexScope, id model.Id, version uuid.UUID) error {
	typeName, err := TypeName(scope)
	if err != nil {
		b.opts.collector.IndexOperation(string(ActionDelete), err)
		return err
	}
	if err := ValidateReference(id, version); err != nil {
		b.opts.collector.IndexOperation(string(ActionDelete), err)
		return err
	}

	docID := DocID(id, version)
	if b.opts.logger.IsDebug() {
		b.opts.logger.WithContextFields(ctx, logrus.Fields{
			"index": b.index,
			"type":  typeName,
			"id":    docID,
		}).Debug("queued delete operation")
	}

	b.add(Operation{Action: ActionDelete, Index: b.index, Type: typeName, ID: docID})
	b.opts.collector.IndexOperation(string(ActionDelete), nil)
	return b.maybeFlush(ctx)
}

// DeindexEntity queues the removal of the current version of e.
func (b *Batch) DeindexEntity(ctx context.Context, scope model.IndexScope, e *model.Entity) error {
	if e == nil {
		return &ValidationError{Field: "entity", Reason: ecode.FieldIsRequired()}
	}
	return b.Deindex(ctx, scope, e.Id(), e.Version())
}

// DeindexCandidate queues the removal of a query hit.
func (b *Batch) DeindexCandidate(ctx context.Context, scope model.IndexScope, c model.CandidateResult) error {
	return b.Deindex(ctx, scope, c.Id, c.Version)
}

// Execute commits pending operations, refreshing the index only if the
// batch was created with forced refresh.
func (b *Batch) Execute(ctx context.Context) error {
	return b.execute(ctx, b.refresh)
}

// ExecuteAndRefresh commits pending operations and makes them visible to
// search before returning.
func (b *Batch) ExecuteAndRefresh(ctx context.Context) error {
	return b.execute(ctx, true)
}

// State returns the current lifecycle state.
func (b *Batch) State() State { return b.state }

// Len returns the number of pending operations.
func (b *Batch) Len() int { return b.live }

// Count returns the number of calls since the last commit.
func (b *Batch) Count() int { return b.count }

func (b *Batch) add(op Operation) {
	if op.Action == ActionIndex {
		key := op.Type + idSeparator + op.ID
		if i, ok := b.pending[key]; ok {
			b.ops[i] = nil
			b.live--
		}
		b.pending[key] = len(b.ops)
	}
	b.ops = append(b.ops, &op)
	b.live++
	b.state = StateAccumulating
}

func (b *Batch) maybeFlush(ctx context.Context) error {
	b.count++
	if !ShouldFlush(b.count, b.threshold) {
		return nil
	}
	b.opts.logger.Debugf(ctx, "auto-flushing %d operations to index %q", b.live, b.index)
	return b.execute(ctx, b.refresh)
}

func (b *Batch) operations() []Operation {
	out := make([]Operation, 0, b.live)
	for _, op := range b.ops {
		if op != nil {
			out = append(out, *op)
		}
	}
	return out
}

func (b *Batch) reset() {
	b.ops = nil
	b.pending = make(map[string]int)
	b.live = 0
	b.count = 0
	b.state = StateEmpty
}

func (b *Batch) execute(ctx context.Context, refresh bool) error {
	defer b.reset()

	ops := b.operations()
	if len(ops) == 0 {
		return nil
	}
	b.state = StateFlushing

	ctx, span := b.opts.tracer.Start(ctx, "index.Batch.Execute", trace.WithAttributes(
		attribute.String("index.name", b.index),
		attribute.String("index.engine", b.exec.Engine()),
		attribute.Int("index.operations", len(ops)),
		attribute.Bool("index.refresh", refresh),
	))
	defer span.End()

	start := time.Now()
	resp, err := b.exec.Bulk(ctx, &BulkRequest{Operations: ops, Refresh: refresh})

	var werr *BulkWriteError
	if err != nil {
		werr = &BulkWriteError{Message: ecode.Failed("bulk request"), Err: err}
	} else if failed := resp.FailedItems(); len(failed) > 0 {
		werr = &BulkWriteError{
			Message: fmt.Sprintf("unable to index documents, %d of %d operations failed, first error: %s", len(failed), len(ops), failed[0].Error),
			Failed:  failed,
		}
	}

	if werr != nil {
		b.opts.collector.BulkFlush(b.exec.Engine(), len(ops), len(werr.Failed), time.Since(start), werr)
		span.RecordError(werr)
		span.SetStatus(codes.Error, werr.Error())
		b.opts.logger.WithContextFields(ctx, logrus.Fields{
			"index":      b.index,
			"operations": len(ops),
			"failed":     len(werr.Failed),
		}).Warn(werr.Error())
		return werr
	}

	b.opts.collector.BulkFlush(b.exec.Engine(), len(ops), 0, time.Since(start), nil)
	b.opts.logger.Debugf(ctx, "committed %d operations to index %q", len(ops), b.index)
	return nil
}
