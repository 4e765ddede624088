package index

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/model"
)

// Document is the search-engine representation of an entity.
type Document map[string]any

// MapEntity flattens e into a Document. Scalar fields get a prefix naming
// their kind, so one dynamic-template mapping covers every type:
//
//	String    sa_<name>, su_<name>   lower-cased value in both
//	Bool      bu_<name>
//	numbers   nu_<name>              Go numeric type preserved
//	UUID      su_<name>              canonical lower-case string
//	Location  go_<name>              {"lat", "lon"}
//	Object    <name>                 nested document
//	List/Set  <name>                 array, plus sa_<name> when all elements are strings
//	Raw       <name>                 verbatim
//
// Names are lower-cased. MapEntity never retains or mutates its input and
// is safe for concurrent use.
func MapEntity(e *model.Entity) Document {
	doc := Document(mapFields(e.Fields()))
	doc[FieldEntityID] = strings.ToLower(e.Id().UUID.String())
	return doc
}

func mapFields(fields []model.Field) map[string]any {
	m := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		name := strings.ToLower(f.Name())

		switch k := f.Kind(); {
		case k == model.KindString:
			v := strings.ToLower(f.Value().(string))
			m[PrefixAnalyzed+name] = v
			m[PrefixExact+name] = v
		case k == model.KindBool:
			m[PrefixBool+name] = f.Value()
		case k.IsNumber():
			m[PrefixNumber+name] = f.Value()
		case k == model.KindUUID:
			m[PrefixExact+name] = uuidString(f.Value().(uuid.UUID))
		case k == model.KindLocation:
			m[PrefixGeo+name] = geoPoint(f.Value().(model.Location))
		case k == model.KindObject:
			m[name] = mapFields(f.Object().Fields())
		case k == model.KindList || k == model.KindSet:
			elems := f.Elements()
			m[name] = mapElements(elems)
			// the joined text keeps the original casing, unlike single strings
			if joined, ok := joinStrings(elems); ok {
				m[PrefixAnalyzed+name] = joined
			}
		case k == model.KindRaw:
			m[name] = f.Value()
		}
	}
	return m
}

func mapElements(elems []model.Field) []any {
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		switch e.Kind() {
		case model.KindObject:
			out = append(out, mapFields(e.Object().Fields()))
		case model.KindList, model.KindSet:
			out = append(out, mapElements(e.Elements()))
		case model.KindUUID:
			out = append(out, uuidString(e.Value().(uuid.UUID)))
		case model.KindLocation:
			out = append(out, geoPoint(e.Value().(model.Location)))
		default:
			if !e.IsZero() {
				out = append(out, e.Value())
			}
		}
	}
	return out
}

// joinStrings joins elems with a space when there is at least one element
// and all of them are strings.
func joinStrings(elems []model.Field) (string, bool) {
	if len(elems) == 0 {
		return "", false
	}
	values := make([]string, len(elems))
	for i, e := range elems {
		if e.Kind() != model.KindString {
			return "", false
		}
		values[i] = e.Value().(string)
	}
	return strings.Join(values, " "), true
}

func uuidString(u uuid.UUID) string {
	return strings.ToLower(u.String())
}

func geoPoint(l model.Location) map[string]any {
	return map[string]any{"lat": l.Latitude, "lon": l.Longitude}
}
