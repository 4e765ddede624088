package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/model"
)

// entityLine is one NDJSON input line.
type entityLine struct {
	ID struct {
		Type string `json:"type"`
		UUID string `json:"uuid"`
	} `json:"id"`
	Version string                     `json:"version"`
	Fields  map[string]json.RawMessage `json:"fields"`
}

// decodeEntity turns a JSON line into an entity. Numbers become Long when
// integral and Double otherwise, {"lat","lon"} objects become locations.
// Missing uuids and versions are generated.
func decodeEntity(line []byte) (*model.Entity, error) {
	var in entityLine
	if err := json.Unmarshal(line, &in); err != nil {
		return nil, fmt.Errorf("invalid entity line: %w", err)
	}
	if in.ID.Type == "" {
		return nil, fmt.Errorf("entity id type is required")
	}

	id := model.NewId(in.ID.Type)
	if in.ID.UUID != "" {
		u, err := uuid.Parse(in.ID.UUID)
		if err != nil {
			return nil, fmt.Errorf("entity id uuid: %w", err)
		}
		id.UUID = u
	}

	version := model.NewVersion()
	if in.Version != "" {
		v, err := uuid.Parse(in.Version)
		if err != nil {
			return nil, fmt.Errorf("entity version: %w", err)
		}
		version = v
	}

	fields, err := decodeFields(in.Fields)
	if err != nil {
		return nil, err
	}
	return model.NewEntityVersion(id, version, fields...), nil
}

func decodeFields(raw map[string]json.RawMessage) ([]model.Field, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		v, err := decodeValue(raw[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		f, ok, err := toField(name, v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if ok {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// toField converts a decoded JSON value. Nulls are dropped.
func toField(name string, v any) (model.Field, bool, error) {
	switch val := v.(type) {
	case nil:
		return model.Field{}, false, nil
	case string:
		return model.String(name, val), true, nil
	case bool:
		return model.Bool(name, val), true, nil
	case json.Number:
		if !strings.ContainsAny(val.String(), ".eE") {
			if n, err := val.Int64(); err == nil {
				return model.Long(name, n), true, nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return model.Field{}, false, err
		}
		return model.Double(name, f), true, nil
	case []any:
		elems := make([]model.Field, 0, len(val))
		for i, e := range val {
			f, ok, err := toField("", e)
			if err != nil {
				return model.Field{}, false, fmt.Errorf("element %d: %w", i, err)
			}
			if ok {
				elems = append(elems, f)
			}
		}
		return model.List(name, elems...), true, nil
	case map[string]any:
		if lat, lon, ok := geoPoint(val); ok {
			return model.Geo(name, lat, lon), true, nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := model.NewEntityObject()
		for _, k := range keys {
			f, ok, err := toField(k, val[k])
			if err != nil {
				return model.Field{}, false, fmt.Errorf("%s: %w", k, err)
			}
			if ok {
				obj.SetField(f)
			}
		}
		return model.Object(name, obj), true, nil
	default:
		return model.Field{}, false, fmt.Errorf("unsupported value %T", v)
	}
}

func geoPoint(m map[string]any) (lat, lon float64, ok bool) {
	if len(m) != 2 {
		return 0, 0, false
	}
	la, ok1 := m["lat"].(json.Number)
	lo, ok2 := m["lon"].(json.Number)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	lat, err1 := la.Float64()
	lon, err2 := lo.Float64()
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
