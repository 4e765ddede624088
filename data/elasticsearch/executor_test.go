package elasticsearch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	"github.com/ncobase/queryindex/data/elasticsearch/client"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
)

// fakeCluster answers the handful of endpoints the executor uses.
type fakeCluster struct {
	mu       sync.Mutex
	indices  map[string]bool
	mappings map[string]map[string]any
	docs     map[string]bool
	refresh  []string
	bulkRaw  []string
	reject   map[string]string
	down     bool
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		indices:  make(map[string]bool),
		mappings: make(map[string]map[string]any),
		docs:     make(map[string]bool),
		reject:   make(map[string]string),
	}
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if f.down {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":  map[string]any{"type": "cluster_block_exception", "reason": "blocked"},
			"status": 503,
		})
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "":
		writeJSON(w, http.StatusOK, map[string]any{"version": map[string]any{"number": "8.19.0"}})
	case path == "_bulk":
		f.bulk(w, r)
	case strings.HasSuffix(path, "/_mapping"):
		name := strings.TrimSuffix(path, "/_mapping")
		if !f.indices[name] {
			writeIndexNotFound(w, name)
			return
		}
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		f.mappings[name] = m
		writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
	case strings.HasSuffix(path, "/_refresh"):
		name := strings.TrimSuffix(path, "/_refresh")
		if !f.indices[name] {
			writeIndexNotFound(w, name)
			return
		}
		f.refresh = append(f.refresh, name)
		writeJSON(w, http.StatusOK, map[string]any{"_shards": map[string]any{"total": 1}})
	case r.Method == http.MethodPut:
		if f.indices[path] {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  map[string]any{"type": "resource_already_exists_exception", "reason": "index [" + path + "] already exists"},
				"status": 400,
			})
			return
		}
		f.indices[path] = true
		writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true, "index": path})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "unexpected request " + r.Method + " " + path})
	}
}

func (f *fakeCluster) bulk(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.bulkRaw = append(f.bulkRaw, string(raw))
	if r.URL.Query().Get("refresh") == "true" {
		f.refresh = append(f.refresh, "_bulk")
	}

	var items []map[string]any
	hasErrors := false
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	for sc.Scan() {
		var action map[string]map[string]string
		if err := json.Unmarshal(sc.Bytes(), &action); err != nil {
			continue
		}
		if meta, ok := action["index"]; ok {
			sc.Scan()
			id := meta["_id"]
			if reason, bad := f.reject[id]; bad {
				hasErrors = true
				items = append(items, map[string]any{"index": map[string]any{
					"_index": meta["_index"], "_id": id, "status": 400,
					"error": map[string]any{"type": "mapper_parsing_exception", "reason": reason},
				}})
				continue
			}
			f.indices[meta["_index"]] = true
			f.docs[meta["_index"]+"/"+id] = true
			items = append(items, map[string]any{"index": map[string]any{
				"_index": meta["_index"], "_id": id, "status": 201, "result": "created",
			}})
			continue
		}
		if meta, ok := action["delete"]; ok {
			key := meta["_index"] + "/" + meta["_id"]
			status, result := 404, "not_found"
			if f.docs[key] {
				delete(f.docs, key)
				status, result = 200, "deleted"
			}
			items = append(items, map[string]any{"delete": map[string]any{
				"_index": meta["_index"], "_id": meta["_id"], "status": status, "result": result,
			}})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"took": 1, "errors": hasErrors, "items": items})
}

func writeIndexNotFound(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":  map[string]any{"type": "index_not_found_exception", "reason": "no such index [" + name + "]"},
		"status": 404,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestExecutor(t *testing.T) (*Executor, *fakeCluster) {
	t.Helper()
	cluster := newFakeCluster()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(client.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return NewExecutor(c), cluster
}

func TestCreateIndexAlreadyExists(t *testing.T) {
	ctx := context.Background()
	exec, _ := newTestExecutor(t)

	if err := exec.CreateIndex(ctx, "idx", &index.IndexSettings{Shards: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := exec.CreateIndex(ctx, "idx", nil)
	if !errors.Is(err, index.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPutMapping(t *testing.T) {
	ctx := context.Background()
	exec, cluster := newTestExecutor(t)

	if err := exec.PutMapping(ctx, "missing", "t", index.TypeMapping("t")); !client.IsType(err, "index_not_found_exception") {
		t.Errorf("expected index_not_found_exception, got %v", err)
	}

	_ = exec.CreateIndex(ctx, "idx", nil)
	if err := exec.PutMapping(ctx, "idx", "o^org^users", index.TypeMapping("o^org^users")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta, _ := cluster.mappings["idx"]["_meta"].(map[string]any)
	if meta["type"] != "o^org^users" {
		t.Errorf("expected mapping meta type, got %v", cluster.mappings["idx"])
	}
}

func TestBulkPerItemResults(t *testing.T) {
	ctx := context.Background()
	exec, cluster := newTestExecutor(t)
	cluster.reject[index.QualifiedID("t", "bad")] = "failed to parse field [nu_age]"

	res, err := exec.Bulk(ctx, &index.BulkRequest{
		Refresh: true,
		Operations: []index.Operation{
			{Action: index.ActionIndex, Index: "idx", Type: "t", ID: "good", Body: index.Document{"su_name": "a"}},
			{Action: index.ActionIndex, Index: "idx", Type: "t", ID: "bad", Body: index.Document{"nu_age": "x"}},
			{Action: index.ActionDelete, Index: "idx", Type: "t", ID: "missing"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(res.Items))
	}
	failed := res.FailedItems()
	if len(failed) != 1 || failed[0].ID != "bad" || failed[0].Type != "t" {
		t.Fatalf("expected only the rejected document to fail, got %+v", failed)
	}
	if !strings.Contains(failed[0].Error, "mapper_parsing_exception") {
		t.Errorf("expected error type in item error, got %q", failed[0].Error)
	}
	if !cluster.docs["idx/"+index.QualifiedID("t", "good")] {
		t.Error("expected document stored under its qualified id")
	}
	if len(cluster.refresh) != 1 {
		t.Errorf("expected refresh on the bulk request, got %v", cluster.refresh)
	}
}

func TestBulkTransportError(t *testing.T) {
	exec, cluster := newTestExecutor(t)
	cluster.down = true

	_, err := exec.Bulk(context.Background(), &index.BulkRequest{Operations: []index.Operation{
		{Action: index.ActionDelete, Index: "idx", Type: "t", ID: "1"},
	}})
	if !client.IsType(err, "cluster_block_exception") {
		t.Errorf("expected cluster_block_exception, got %v", err)
	}
}

func TestRefreshAndHealth(t *testing.T) {
	ctx := context.Background()
	exec, cluster := newTestExecutor(t)

	if err := exec.Health(ctx); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
	if err := exec.Refresh(ctx, "idx"); err == nil {
		t.Error("expected refresh of a missing index to fail")
	}
	_ = exec.CreateIndex(ctx, "idx", nil)
	if err := exec.Refresh(ctx, "idx"); err != nil {
		t.Errorf("unexpected refresh error: %v", err)
	}

	cluster.mu.Lock()
	cluster.down = true
	cluster.mu.Unlock()
	if err := exec.Health(ctx); err == nil {
		t.Error("expected health error from unavailable cluster")
	}
}

func TestDriverRegistered(t *testing.T) {
	d, err := data.GetSearchDriver("elasticsearch")
	if err != nil {
		t.Fatalf("expected driver registered: %v", err)
	}
	if _, err := d.Connect(context.Background(), &config.Elasticsearch{}); err == nil {
		t.Error("expected error for empty addresses")
	}
	conn, err := d.Connect(context.Background(), &config.Elasticsearch{Addresses: []string{"http://localhost:9200"}})
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}
	exec, err := search.NewExecutor(search.Elasticsearch, conn, nil)
	if err != nil {
		t.Fatalf("unexpected executor error: %v", err)
	}
	if exec.Engine() != "elasticsearch" {
		t.Errorf("unexpected engine %q", exec.Engine())
	}
}
