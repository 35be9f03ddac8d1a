package openapi

import (
	"fmt"

	"github.com/schemagen/schemagen/pkg/ir"
)

// jsonSchemaTypes mirrors pkg/gotype's scalar table but targets JSON
// Schema {type, format} pairs instead of Go type strings.
var jsonSchemaTypes = map[string]struct{ typ, format string }{
	"String":   {"string", ""},
	"Int":      {"integer", "int64"},
	"Float":    {"number", "double"},
	"Boolean":  {"boolean", ""},
	"DateTime": {"string", "date-time"},
	"Json":     {"object", ""},
	"BigInt":   {"integer", "int64"},
	"Bytes":    {"string", "byte"},
	"Decimal":  {"string", ""},
}

// schemaForField returns the Schema node for one field.
func schemaForField(model *ir.ParsedModel, f *ir.ParsedField) (*Schema, error) {
	var node *Schema
	switch f.Kind {
	case ir.KindScalar:
		mapped, ok := jsonSchemaTypes[f.Type]
		if !ok {
			return nil, fmt.Errorf("openapi: unknown scalar type %q on %s.%s", f.Type, model.Name, f.Name)
		}
		node = &Schema{Type: mapped.typ, Format: mapped.format}
	case ir.KindEnum:
		node = &Schema{Type: "string"}
	case ir.KindObject:
		node = ref(f.Type)
	default:
		return nil, fmt.Errorf("openapi: unsupported field kind %q on %s.%s", f.Kind, model.Name, f.Name)
	}

	if f.IsList {
		node = &Schema{Type: "array", Items: node}
	}
	if f.IsNullable() {
		node.Nullable = true
	}
	return node, nil
}

// schemaForModel builds the component schema for model. createOnly
// restricts the field set to CreateFields() (the request-body shape);
// otherwise every scalar/enum field is included (the read/response
// shape). Relation (object) fields are omitted from both to avoid
// unbounded graph expansion in the document.
func schemaForModel(model *ir.ParsedModel, createOnly bool) (*Schema, error) {
	fields := model.ScalarFields()
	if createOnly {
		fields = model.CreateFields()
	}

	node := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for i := range fields {
		f := &fields[i]
		if f.Kind == ir.KindObject {
			continue
		}
		fieldSchema, err := schemaForField(model, f)
		if err != nil {
			return nil, err
		}
		node.Properties[f.Name] = fieldSchema
		if f.IsRequired && !f.IsNullable() {
			node.Required = append(node.Required, f.Name)
		}
	}
	return node, nil
}
