package index

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/ecode"
	"github.com/ncobase/queryindex/model"
)

// forbiddenIndexChars may not appear in a physical index name.
const forbiddenIndexChars = `\/*?"<>|,#: `

// IndexName returns the physical index of app:
// lower(prefix_appuuid_apptype). The prefix is omitted when empty.
func IndexName(prefix string, app model.ApplicationScope) (string, error) {
	if err := ValidateApplicationScope(app); err != nil {
		return "", err
	}
	if err := validateIndexPrefix(prefix); err != nil {
		return "", err
	}

	name := app.Application.UUID.String() + indexSeparator + app.Application.Type
	if prefix != "" {
		name = prefix + indexSeparator + name
	}
	return strings.ToLower(name), nil
}

// ParseIndexName reverses IndexName. The application type comes back
// lower-cased.
func ParseIndexName(prefix, name string) (model.ApplicationScope, error) {
	rest := name
	if prefix != "" {
		p := strings.ToLower(prefix) + indexSeparator
		if !strings.HasPrefix(rest, p) {
			return model.ApplicationScope{}, fmt.Errorf("index: index name %q does not start with prefix %q", name, prefix)
		}
		rest = rest[len(p):]
	}

	const uuidLen = 36
	if len(rest) < uuidLen+2 || rest[uuidLen:uuidLen+1] != indexSeparator {
		return model.ApplicationScope{}, fmt.Errorf("index: index name %q is not an application index", name)
	}
	u, err := uuid.Parse(rest[:uuidLen])
	if err != nil {
		return model.ApplicationScope{}, fmt.Errorf("index: index name %q: %w", name, err)
	}
	return model.NewApplicationScope(model.Id{Type: rest[uuidLen+1:], UUID: u}), nil
}

// TypeName returns the logical type of scope: owneruuid^ownertype^name.
func TypeName(scope model.IndexScope) (string, error) {
	if err := ValidateIndexScope(scope); err != nil {
		return "", err
	}
	return scope.Owner.UUID.String() + typeSeparator + scope.Owner.Type + typeSeparator + scope.Name, nil
}

// DocID returns the document id of one entity version: uuid|type|version.
// Distinct versions of the same entity get distinct ids.
func DocID(id model.Id, version uuid.UUID) string {
	return id.UUID.String() + idSeparator + id.Type + idSeparator + version.String()
}

// ParseDocID reverses DocID.
func ParseDocID(docID string) (model.CandidateResult, error) {
	parts := strings.Split(docID, idSeparator)
	if len(parts) != 3 || parts[1] == "" {
		return model.CandidateResult{}, fmt.Errorf("index: document id %q is not in uuid|type|version form", docID)
	}
	u, err := uuid.Parse(parts[0])
	if err != nil {
		return model.CandidateResult{}, fmt.Errorf("index: document id %q: %w", docID, err)
	}
	v, err := uuid.Parse(parts[2])
	if err != nil {
		return model.CandidateResult{}, fmt.Errorf("index: document id %q: %w", docID, err)
	}
	return model.CandidateResult{Id: model.Id{Type: parts[1], UUID: u}, Version: v}, nil
}

// ValidateApplicationScope checks that app can name a physical index.
func ValidateApplicationScope(app model.ApplicationScope) error {
	if err := validateScopeId("application", app.Application); err != nil {
		return err
	}
	if strings.ContainsAny(app.Application.Type, forbiddenIndexChars) {
		return &InvalidScopeError{Field: "application.type", Reason: "contains characters not allowed in index names"}
	}
	return nil
}

// ValidateIndexScope checks that scope can name a logical type.
func ValidateIndexScope(scope model.IndexScope) error {
	if err := validateScopeId("owner", scope.Owner); err != nil {
		return err
	}
	return validateComponent("name", scope.Name)
}

func validateScopeId(field string, id model.Id) error {
	if id.UUID == uuid.Nil {
		return &InvalidScopeError{Field: field + ".uuid", Reason: ecode.FieldIsRequired()}
	}
	return validateComponent(field+".type", id.Type)
}

func validateComponent(field, v string) error {
	switch {
	case v == "":
		return &InvalidScopeError{Field: field, Reason: ecode.FieldIsRequired()}
	case strings.ContainsAny(v, typeSeparator+idSeparator):
		return &InvalidScopeError{Field: field, Reason: fmt.Sprintf("must not contain %q or %q", typeSeparator, idSeparator)}
	case strings.IndexFunc(v, unicode.IsSpace) >= 0:
		return &InvalidScopeError{Field: field, Reason: "must not contain whitespace"}
	}
	return nil
}

func validateIndexPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if strings.ContainsAny(prefix, forbiddenIndexChars) || strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return &InvalidScopeError{Field: "index_prefix", Reason: "contains characters not allowed in index names"}
	}
	if strings.ContainsAny(prefix[:1], "-_+") {
		return &InvalidScopeError{Field: "index_prefix", Reason: "must not start with '-', '_' or '+'"}
	}
	return nil
}

// ValidateEntity checks that e can be indexed.
func ValidateEntity(e *model.Entity) error {
	if e == nil {
		return &ValidationError{Field: "entity", Reason: ecode.FieldIsRequired()}
	}
	if err := ValidateReference(e.Id(), e.Version()); err != nil {
		return err
	}
	return validateFields("", e.Fields())
}

// ValidateReference checks an (id, version) pair used to address a document.
func ValidateReference(id model.Id, version uuid.UUID) error {
	switch {
	case id.Type == "":
		return &ValidationError{Field: "id.type", Reason: ecode.FieldIsRequired()}
	case strings.Contains(id.Type, idSeparator):
		return &ValidationError{Field: "id.type", Reason: fmt.Sprintf("must not contain %q", idSeparator)}
	case id.UUID == uuid.Nil:
		return &ValidationError{Field: "id.uuid", Reason: ecode.FieldIsRequired()}
	case version == uuid.Nil:
		return &ValidationError{Field: "version", Reason: ecode.FieldIsRequired()}
	case !model.IsTimeBased(version):
		return &ValidationError{Field: "version", Reason: "must be a time-based uuid"}
	}
	return nil
}

func validateFields(path string, fields []model.Field) error {
	for i, f := range fields {
		switch {
		case f.IsZero():
			return &ValidationError{Field: fmt.Sprintf("%sfields[%d]", path, i), Reason: ecode.FieldIsInvalid()}
		case f.Name() == "":
			return &ValidationError{Field: fmt.Sprintf("%sfields[%d].name", path, i), Reason: ecode.FieldIsRequired()}
		case f.Kind() == model.KindObject:
			if err := validateFields(path+strings.ToLower(f.Name())+".", f.Object().Fields()); err != nil {
				return err
			}
		case f.Kind() == model.KindList, f.Kind() == model.KindSet:
			if err := validateElements(path+strings.ToLower(f.Name()), f.Elements()); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateElements checks collection members. Members are unnamed, but
// objects among them follow the field rules.
func validateElements(path string, elems []model.Field) error {
	for i, e := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case e.IsZero():
			return &ValidationError{Field: elemPath, Reason: ecode.FieldIsInvalid()}
		case e.Kind() == model.KindObject:
			if err := validateFields(elemPath+".", e.Object().Fields()); err != nil {
				return err
			}
		case e.Kind() == model.KindList, e.Kind() == model.KindSet:
			if err := validateElements(elemPath, e.Elements()); err != nil {
				return err
			}
		}
	}
	return nil
}
