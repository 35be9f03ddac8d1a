// Package gotype maps IR scalar and field shapes to Go type strings and
// go-playground/validator struct tags, the single source every emitter
// reaches for instead of redefining the scalar table locally (spec.md
// §4.5.1: "the IR scalar -> language-type mapping"). Grounded on
// 2lar-b2/backend2's validator-tagged request structs
// (pkg/utils/validation.go), generalized from hand-written structs into a
// derivation from ir.ParsedField.
package gotype

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/ir"
)

// scalarTypes is the IR scalar kind -> Go type mapping.
var scalarTypes = map[string]string{
	"String":   "string",
	"Int":      "int64",
	"Float":    "float64",
	"Boolean":  "bool",
	"DateTime": "time.Time",
	"Json":     "json.RawMessage",
	"BigInt":   "int64",
	"Bytes":    "[]byte",
	"Decimal":  "string",
}

// ErrUnknownScalar is returned when a field's scalar type has no mapping
// (spec.md §4.5.1 failure mode: "unknown scalar type -> error with
// model/field").
type ErrUnknownScalar struct {
	ModelName  string
	FieldName  string
	ScalarName string
}

func (e *ErrUnknownScalar) Error() string {
	return fmt.Sprintf("unknown scalar type %q on %s.%s", e.ScalarName, e.ModelName, e.FieldName)
}

// Resolve returns the Go type reference for f, given its owning model's
// name for error reporting. Enum and relation (object) fields reference
// the sibling generated type by name; list fields wrap in a slice;
// nullable non-list scalars/enums are pointer types, the idiomatic way to
// express SQL NULL on a Go struct field without an extra wrapper type.
func Resolve(modelName string, f *ir.ParsedField) (string, error) {
	var base string
	switch f.Kind {
	case ir.KindScalar:
		mapped, ok := scalarTypes[f.Type]
		if !ok {
			return "", &ErrUnknownScalar{ModelName: modelName, FieldName: f.Name, ScalarName: f.Type}
		}
		base = mapped
	case ir.KindEnum:
		base = f.Type
	case ir.KindObject:
		base = f.Type
	default:
		return "", &ErrUnknownScalar{ModelName: modelName, FieldName: f.Name, ScalarName: f.Type}
	}

	if f.IsList {
		return "[]" + base, nil
	}
	if f.IsNullable() {
		return "*" + base, nil
	}
	return base, nil
}

// NeedsTimeImport reports whether rendering typ requires importing "time".
func NeedsTimeImport(typ string) bool {
	return strings.Contains(typ, "time.Time")
}

// NeedsJSONImport reports whether rendering typ requires importing
// "encoding/json".
func NeedsJSONImport(typ string) bool {
	return strings.Contains(typ, "json.RawMessage")
}

// ValidateTag returns the go-playground/validator struct tag fragment for
// f (without the surrounding backticks), honoring required/optional. Enum
// fields get only that prefix: no oneof rule is added, so enum membership
// is not checked. slugFormatHint, when true, additionally constrains
// string fields whose name matches a slug/email pattern per spec.md
// §4.5.2's opt-in format hint.
func ValidateTag(f *ir.ParsedField, slugFormatHint bool) string {
	var rules []string

	if f.IsRequired && !f.IsNullable() {
		rules = append(rules, "required")
	} else {
		rules = append(rules, "omitempty")
	}

	switch f.Kind {
	case ir.KindEnum:
		// ValidateTag has no access to the enum's value list and emits
		// only the required/omitempty prefix for enum fields.
	case ir.KindScalar:
		if slugFormatHint && f.IsUnique {
			switch {
			case strings.Contains(f.NameLower, "email"):
				rules = append(rules, "email")
			case strings.Contains(f.NameLower, "slug") || strings.Contains(f.NameLower, "handle") || strings.Contains(f.NameLower, "permalink"):
				rules = append(rules, "alphanum")
			}
		}
	}

	return strings.Join(rules, ",")
}

// OneofTag renders a validator "oneof=a b c" fragment for an enum's value
// list. No emitter in this module calls it.
func OneofTag(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}
