package index

// Reserved document fields. Their names cannot collide with user fields,
// which always carry a type prefix or are nested under their own name.
const (
	// FieldEntityID holds the lower-cased uuid of the source entity.
	FieldEntityID = "su_zzz_entityid_zzz"
	// FieldDocType holds the logical type name of the document.
	FieldDocType = "su_zzz_doctype_zzz"
)

// Field name prefixes. They are part of the stored index format and must
// not change.
const (
	PrefixAnalyzed = "sa_"
	PrefixExact    = "su_"
	PrefixNumber   = "nu_"
	PrefixBool     = "bu_"
	PrefixGeo      = "go_"
)

const (
	typeSeparator  = "^"
	idSeparator    = "|"
	indexSeparator = "_"

	// ExactIgnoreAbove is the longest exact string the engine keeps in the
	// keyword index.
	ExactIgnoreAbove = 8191

	// DefaultBulkSize is the auto-flush threshold used when none is configured.
	DefaultBulkSize = 1000
)
