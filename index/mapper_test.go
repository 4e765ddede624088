package index

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/model"
)

func TestMapEntityStrings(t *testing.T) {
	id := model.NewId("user")
	doc := MapEntity(model.NewEntity(id, model.String("Name", "Alice")))

	if doc["sa_name"] != "alice" || doc["su_name"] != "alice" {
		t.Errorf("expected lower-cased sa_name and su_name, got %v / %v", doc["sa_name"], doc["su_name"])
	}
	if doc[FieldEntityID] != id.UUID.String() {
		t.Errorf("expected entity id %q, got %v", id.UUID.String(), doc[FieldEntityID])
	}
	if _, ok := doc["name"]; ok {
		t.Error("expected no unprefixed key for a string field")
	}
}

func TestMapEntityStringListKeepsCasing(t *testing.T) {
	doc := MapEntity(model.NewEntity(model.NewId("user"), model.Strings("Tags", "Red", "Blue")))

	if !reflect.DeepEqual(doc["tags"], []any{"Red", "Blue"}) {
		t.Errorf("expected verbatim array, got %#v", doc["tags"])
	}
	// unlike single string fields, the joined text is not lower-cased
	if doc["sa_tags"] != "Red Blue" {
		t.Errorf("expected sa_tags %q, got %#v", "Red Blue", doc["sa_tags"])
	}
}

func TestMapEntityCollections(t *testing.T) {
	u := uuid.MustParse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	e := model.NewEntity(model.NewId("user"),
		model.Set("Colors", model.String("", "red"), model.String("", "red"), model.String("", "green")),
		model.List("Mixed", model.String("", "a"), model.Long("", 1)),
		model.List("Empty"),
		model.List("Refs", model.UUID("", u)),
		model.List("Points", model.Geo("", 1.5, 2.5)),
		model.List("Matrix", model.List("", model.Long("", 1), model.Long("", 2)), model.List("", model.Long("", 3))),
		model.List("People", model.Object("", model.NewEntityObject(model.String("First", "Bob")))),
	)
	doc := MapEntity(e)

	if !reflect.DeepEqual(doc["colors"], []any{"red", "green"}) {
		t.Errorf("expected de-duplicated set array, got %#v", doc["colors"])
	}
	if doc["sa_colors"] != "red green" {
		t.Errorf("expected joined set text, got %#v", doc["sa_colors"])
	}
	if _, ok := doc["sa_mixed"]; ok {
		t.Error("expected no joined text for a mixed list")
	}
	if _, ok := doc["sa_empty"]; ok {
		t.Error("expected no joined text for an empty list")
	}
	if !reflect.DeepEqual(doc["empty"], []any{}) {
		t.Errorf("expected empty array, got %#v", doc["empty"])
	}
	if !reflect.DeepEqual(doc["refs"], []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}) {
		t.Errorf("expected lower-case uuid strings, got %#v", doc["refs"])
	}
	if !reflect.DeepEqual(doc["points"], []any{map[string]any{"lat": 1.5, "lon": 2.5}}) {
		t.Errorf("expected lat/lon maps, got %#v", doc["points"])
	}
	if !reflect.DeepEqual(doc["matrix"], []any{[]any{int64(1), int64(2)}, []any{int64(3)}}) {
		t.Errorf("expected nested arrays, got %#v", doc["matrix"])
	}
	people := doc["people"].([]any)
	person := people[0].(map[string]any)
	if person["sa_first"] != "bob" {
		t.Errorf("expected mapped object element, got %#v", person)
	}
	if _, ok := person[FieldEntityID]; ok {
		t.Error("expected nested objects to carry no entity id")
	}
}

func TestMapEntityScalars(t *testing.T) {
	u := uuid.MustParse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	e := model.NewEntity(model.NewId("user"),
		model.Int("Age", 42),
		model.Long("Visits", 1<<40),
		model.Float("Ratio", 0.5),
		model.Double("Score", 9.75),
		model.Bool("Active", true),
		model.UUID("Friend", u),
		model.Geo("Home", 37.77, -122.41),
		model.Raw("Blob", map[string]any{"Keep": "As Is"}),
	)
	doc := MapEntity(e)

	want := map[string]any{
		"nu_age":    int32(42),
		"nu_visits": int64(1 << 40),
		"nu_ratio":  float32(0.5),
		"nu_score":  9.75,
		"bu_active": true,
		"su_friend": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"go_home":   map[string]any{"lat": 37.77, "lon": -122.41},
		"blob":      map[string]any{"Keep": "As Is"},
	}
	for k, v := range want {
		if !reflect.DeepEqual(doc[k], v) {
			t.Errorf("%s: expected %#v, got %#v", k, v, doc[k])
		}
	}
}

func TestMapEntityNestedObject(t *testing.T) {
	addr := model.NewEntityObject(
		model.String("City", "Paris"),
		model.Object("Geo", model.NewEntityObject(model.Geo("Point", 48.85, 2.35))),
	)
	doc := MapEntity(model.NewEntity(model.NewId("user"), model.Object("Address", addr)))

	address, ok := doc["address"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map under address, got %#v", doc["address"])
	}
	if address["su_city"] != "paris" {
		t.Errorf("expected nested prefixed field, got %#v", address)
	}
	inner := address["geo"].(map[string]any)
	if !reflect.DeepEqual(inner["go_point"], map[string]any{"lat": 48.85, "lon": 2.35}) {
		t.Errorf("expected nested geo point, got %#v", inner)
	}
}

func TestMapEntityIsDeterministic(t *testing.T) {
	e := model.NewEntity(model.NewId("user"),
		model.String("Name", "Alice"),
		model.Strings("Tags", "a", "b"),
		model.Object("Meta", model.NewEntityObject(model.Long("n", 1))),
	)

	first, err := json.Marshal(MapEntity(e))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = json.Marshal(MapEntity(e))
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if string(r) != string(first) {
			t.Errorf("run %d: expected %s, got %s", i, first, r)
		}
	}
}

func TestMapEntityReturnsFreshDocument(t *testing.T) {
	e := model.NewEntity(model.NewId("user"), model.String("Name", "Alice"))
	a := MapEntity(e)
	a["sa_name"] = "changed"

	if b := MapEntity(e); b["sa_name"] != "alice" {
		t.Errorf("expected independent documents, got %v", b["sa_name"])
	}
}
