package index

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/queryindex/data/metrics"
	"github.com/ncobase/queryindex/model"
)

func TestNewValidatesInput(t *testing.T) {
	if _, err := New(testApp(), nil, DefaultConfig()); !errors.Is(err, ErrNilExecutor) {
		t.Errorf("expected ErrNilExecutor, got %v", err)
	}

	var scopeErr *InvalidScopeError
	if _, err := New(model.ApplicationScope{}, newRecordingExecutor(), DefaultConfig()); !errors.As(err, &scopeErr) {
		t.Errorf("expected InvalidScopeError, got %v", err)
	}

	var vErr *ValidationError
	if _, err := New(testApp(), newRecordingExecutor(), Config{BulkSize: -1}); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestEntityIndexInitialize(t *testing.T) {
	exec := newRecordingExecutor()
	x := newTestIndex(t, exec, Config{IndexPrefix: "p"})
	ctx := context.Background()

	if err := x.Initialize(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.creates) != 1 || exec.creates[0] != x.Name() {
		t.Errorf("expected index %q to be created, got %v", x.Name(), exec.creates)
	}

	exec.createErr = ErrAlreadyExists
	if err := x.Initialize(ctx); err != nil {
		t.Errorf("expected existing index to be success, got %v", err)
	}

	exec.createErr = errors.New("forbidden")
	var schemaErr *SchemaError
	if err := x.Initialize(ctx); !errors.As(err, &schemaErr) {
		t.Errorf("expected SchemaError, got %v", err)
	}
}

func TestEntityIndexSharesRegistryAcrossBatches(t *testing.T) {
	exec := newRecordingExecutor()
	x := newTestIndex(t, exec, DefaultConfig())
	ctx := context.Background()

	if err := x.EnsureType(ctx, testScope()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := x.CreateBatch().Index(ctx, testScope(), model.NewEntity(model.NewId("user"))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if exec.mappingCount() != 1 {
		t.Errorf("expected one registration shared by all batches, got %d", exec.mappingCount())
	}
}

func TestEntityIndexHealthAndRefresh(t *testing.T) {
	exec := newRecordingExecutor()
	collector := metrics.NewIndexCollector(100)
	x, err := New(testApp(), exec, DefaultConfig(), WithCollector(collector))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := x.Health(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exec.healthErr = errors.New("red")
	if err := x.Health(ctx); err == nil {
		t.Error("expected health error")
	}
	health := collector.GetStats()["health"].(map[string]bool)
	if health["recording"] {
		t.Error("expected last health check to be recorded as unhealthy")
	}

	if err := x.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.refreshes) != 1 || exec.refreshes[0] != x.Name() {
		t.Errorf("expected refresh of %q, got %v", x.Name(), exec.refreshes)
	}
}

func TestEntityIndexRecordsMetrics(t *testing.T) {
	exec := newRecordingExecutor()
	collector := metrics.NewIndexCollector(100)
	x, _ := New(testApp(), exec, DefaultConfig(), WithCollector(collector))
	b := x.CreateBatch()
	ctx := context.Background()

	_ = b.Index(ctx, testScope(), model.NewEntity(model.NewId("user")))
	_ = b.Index(ctx, testScope(), model.NewEntity(model.NewId("user")))
	_ = b.Execute(ctx)

	stats := collector.GetStats()
	if stats["bulk"].(map[string]any)["operations"] != int64(2) {
		t.Errorf("unexpected bulk stats %v", stats["bulk"])
	}
	schema := stats["schema"].(map[string]any)
	if schema["registrations"] != int64(2) || schema["cached"] != int64(1) {
		t.Errorf("unexpected schema stats %v", schema)
	}
}
