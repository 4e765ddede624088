package memory

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
	"github.com/ncobase/queryindex/model"
)

var (
	appID   = model.Id{Type: "application", UUID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")}
	ownerID = model.Id{Type: "organization", UUID: uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")}
)

func TestCreateIndexTwiceReportsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	e := NewExecutor()

	if err := e.CreateIndex(ctx, "idx", &index.IndexSettings{Shards: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := e.CreateIndex(ctx, "idx", nil)
	if !errors.Is(err, index.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPutMappingRequiresIndex(t *testing.T) {
	ctx := context.Background()
	e := NewExecutor()

	if err := e.PutMapping(ctx, "missing", "t", index.TypeMapping("t")); err == nil {
		t.Fatal("expected error for missing index")
	}
	_ = e.CreateIndex(ctx, "idx", nil)
	if err := e.PutMapping(ctx, "idx", "t", index.TypeMapping("t")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Mapping("idx"); !ok {
		t.Error("expected stored mapping")
	}
}

func TestBulkStatuses(t *testing.T) {
	ctx := context.Background()
	e := NewExecutor()

	res, err := e.Bulk(ctx, &index.BulkRequest{Operations: []index.Operation{
		{Action: index.ActionIndex, Index: "idx", Type: "t", ID: "1", Body: index.Document{"su_name": "a"}},
		{Action: index.ActionIndex, Index: "idx", Type: "t", ID: "1", Body: index.Document{"su_name": "b"}},
		{Action: index.ActionDelete, Index: "idx", Type: "t", ID: "2"},
		{Action: index.ActionDelete, Index: "idx", Type: "t", ID: "1"},
		{Action: "update", Index: "idx", Type: "t", ID: "3"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{http.StatusCreated, http.StatusOK, http.StatusNotFound, http.StatusOK, http.StatusBadRequest}
	for i, w := range want {
		if res.Items[i].Status != w {
			t.Errorf("item %d: expected status %d, got %d", i, w, res.Items[i].Status)
		}
	}
	if failed := res.FailedItems(); len(failed) != 1 || failed[0].ID != "3" {
		t.Errorf("expected only the unsupported action to fail, got %+v", failed)
	}
	if e.Count("idx") != 0 {
		t.Errorf("expected empty index, got %d documents", e.Count("idx"))
	}
}

func TestDownEngineFailsCalls(t *testing.T) {
	ctx := context.Background()
	e := NewExecutor()
	boom := errors.New("unreachable")
	e.SetDown(boom)

	if err := e.Health(ctx); !errors.Is(err, boom) {
		t.Errorf("expected health error, got %v", err)
	}
	if _, err := e.Bulk(ctx, &index.BulkRequest{}); !errors.Is(err, boom) {
		t.Errorf("expected bulk error, got %v", err)
	}

	e.SetDown(nil)
	if err := e.Health(ctx); err != nil {
		t.Errorf("expected healthy engine, got %v", err)
	}
}

func TestDriverAndFactoryRegistered(t *testing.T) {
	ctx := context.Background()

	d, err := data.GetSearchDriver(EngineName)
	if err != nil {
		t.Fatalf("expected memory driver, got %v", err)
	}
	conn, err := d.Connect(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}
	exec, err := search.NewExecutor(search.Memory, conn, nil)
	if err != nil {
		t.Fatalf("unexpected executor error: %v", err)
	}
	if exec.Engine() != EngineName {
		t.Errorf("expected engine %q, got %q", EngineName, exec.Engine())
	}
	if err := d.Close(conn); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestEntityIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := NewExecutor()

	x, err := index.New(model.NewApplicationScope(appID), e, index.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := x.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	scope := model.NewIndexScope(ownerID, "users")
	alice := model.NewEntity(model.NewId("user"), model.String("name", "Alice"), model.Long("age", 30))
	bob := model.NewEntity(model.NewId("user"), model.String("name", "Bob"))

	b := x.CreateBatch()
	if err := b.Index(ctx, scope, alice); err != nil {
		t.Fatalf("index alice: %v", err)
	}
	if err := b.Index(ctx, scope, bob); err != nil {
		t.Fatalf("index bob: %v", err)
	}
	if err := b.ExecuteAndRefresh(ctx); err != nil {
		t.Fatalf("execute: %v", err)
	}

	typeName, _ := index.TypeName(scope)
	doc, ok := e.Get(x.Name(), typeName, index.DocID(alice.Id(), alice.Version()))
	if !ok {
		t.Fatal("expected alice to be stored")
	}
	if doc["su_name"] != "alice" || doc[index.FieldDocType] != typeName {
		t.Errorf("unexpected document: %v", doc)
	}

	ids := e.MatchExact(x.Name(), typeName, "su_name", "bob")
	if len(ids) != 1 || ids[0] != index.DocID(bob.Id(), bob.Version()) {
		t.Errorf("expected bob to match, got %v", ids)
	}

	// removing another version of alice leaves the indexed one alone
	stored := e.Count(x.Name())
	other := model.NewVersion()
	if other == alice.Version() {
		t.Fatal("expected a distinct version")
	}
	if err := b.Deindex(ctx, scope, alice.Id(), other); err != nil {
		t.Fatalf("deindex other version: %v", err)
	}
	if err := b.ExecuteAndRefresh(ctx); err != nil {
		t.Fatalf("execute other version delete: %v", err)
	}
	if _, ok := e.Get(x.Name(), typeName, index.DocID(alice.Id(), alice.Version())); !ok {
		t.Error("expected alice to survive a delete of another version")
	}
	if got := e.Count(x.Name()); got != stored {
		t.Errorf("expected %d documents after deleting another version, got %d", stored, got)
	}

	if err := b.DeindexEntity(ctx, scope, alice); err != nil {
		t.Fatalf("deindex: %v", err)
	}
	if err := b.Execute(ctx); err != nil {
		t.Fatalf("execute delete: %v", err)
	}
	if e.Count(x.Name()) != 1 {
		t.Errorf("expected one document left, got %d", e.Count(x.Name()))
	}
}
