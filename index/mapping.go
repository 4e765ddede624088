package index

// Mapping is an engine mapping body.
type Mapping map[string]any

// IndexSettings configures a physical index at creation. Zero values leave
// the engine defaults in place.
type IndexSettings struct {
	Shards          int    `json:"number_of_shards,omitempty" mapstructure:"shards"`
	Replicas        int    `json:"number_of_replicas,omitempty" mapstructure:"replicas"`
	RefreshInterval string `json:"refresh_interval,omitempty" mapstructure:"refresh_interval"`
}

// Body returns the create-index request body for s. A nil s yields an
// empty body.
func (s *IndexSettings) Body() map[string]any {
	settings := map[string]any{}
	if s != nil {
		if s.Shards > 0 {
			settings["number_of_shards"] = s.Shards
		}
		if s.Replicas > 0 {
			settings["number_of_replicas"] = s.Replicas
		}
		if s.RefreshInterval != "" {
			settings["refresh_interval"] = s.RefreshInterval
		}
	}
	if len(settings) == 0 {
		return map[string]any{}
	}
	return map[string]any{"settings": settings}
}

// TypeMapping returns the mapping registered for a logical type. Field
// types are chosen by name prefix through dynamic templates.
func TypeMapping(typeName string) Mapping {
	return Mapping{
		"_meta": map[string]any{"type": typeName},
		"dynamic_templates": []any{
			dynamicTemplate("analyzed_strings", PrefixAnalyzed+"*", "string", map[string]any{
				"type": "text",
			}),
			dynamicTemplate("exact_strings", PrefixExact+"*", "string", map[string]any{
				"type":         "keyword",
				"ignore_above": ExactIgnoreAbove,
			}),
			// integral floats reach the engine as integer tokens, so the
			// first value seen must not decide the numeric type
			dynamicTemplate("numbers", PrefixNumber+"*", "*", map[string]any{
				"type": "double",
			}),
			dynamicTemplate("booleans", PrefixBool+"*", "boolean", map[string]any{
				"type": "boolean",
			}),
			dynamicTemplate("locations", PrefixGeo+"*", "object", map[string]any{
				"type": "geo_point",
			}),
		},
		"properties": map[string]any{
			FieldEntityID: map[string]any{"type": "keyword"},
			FieldDocType:  map[string]any{"type": "keyword"},
		},
	}
}

func dynamicTemplate(name, match, mappingType string, mapping map[string]any) map[string]any {
	return map[string]any{
		name: map[string]any{
			"match":              match,
			"match_mapping_type": mappingType,
			"mapping":            mapping,
		},
	}
}
