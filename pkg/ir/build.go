package ir

import (
	"fmt"
	"strings"
)

// RawField mirrors the DMMF-shaped JSON document the upstream schema
// front-end hands the core. Decoding this shape and turning it into a
// ParsedSchema is the one responsibility this package owns on the input
// side; reconstructing RawSchema from Prisma source text is the upstream
// front end's job, out of scope here.
type RawField struct {
	Name               string      `json:"name"`
	Type               string      `json:"type"`
	Kind               string      `json:"kind"` // scalar | enum | object
	IsRequired         bool        `json:"isRequired"`
	IsList             bool        `json:"isList"`
	IsId               bool        `json:"isId"`
	IsUnique           bool        `json:"isUnique"`
	IsUpdatedAt        bool        `json:"isUpdatedAt"`
	HasDefaultValue    bool        `json:"hasDefaultValue"`
	Default            interface{} `json:"default"`
	RelationName       string      `json:"relationName"`
	RelationFromFields []string    `json:"relationFromFields"`
	RelationToFields   []string    `json:"relationToFields"`
	Documentation      string      `json:"documentation"`
}

// RawModel mirrors one model entry of the DMMF-shaped input.
type RawModel struct {
	Name          string      `json:"name"`
	DbName        string      `json:"dbName"`
	Documentation string      `json:"documentation"`
	Fields        []RawField  `json:"fields"`
	UniqueFields  [][]string  `json:"uniqueFields"`
	PrimaryKey    *PrimaryKey `json:"primaryKey"`

	// RealtimeBroadcast mirrors a `@@realtime(broadcast: [...])` block
	// attribute: the mutation kinds ("created"/"updated"/"deleted") this
	// model's generated service should push to a WebSocket channel. Empty
	// means realtime is not enabled for this model.
	RealtimeBroadcast []string `json:"realtimeBroadcast"`
}

// RawEnum mirrors one enum entry of the DMMF-shaped input.
type RawEnum struct {
	Name          string   `json:"name"`
	Values        []string `json:"values"`
	Documentation string   `json:"documentation"`
}

// RawSchema is the top-level DMMF-shaped document.
type RawSchema struct {
	Models []RawModel `json:"models"`
	Enums  []RawEnum  `json:"enums"`
}

// BuildOptions controls how Build derives a ParsedSchema from a RawSchema.
type BuildOptions struct {
	// Freeze deep-freezes the resulting schema. The zero value leaves it
	// unfrozen; NewBuildOptions sets Freeze=true.
	Freeze bool
}

// NewBuildOptions returns the default options: Freeze=true.
func NewBuildOptions() BuildOptions { return BuildOptions{Freeze: true} }

// Build turns a RawSchema into a ParsedSchema: normalizes names, classifies
// default values and readonly-ness, and computes the modelMap/enumMap/
// reverseRelationMap indices. It does not validate cross-references; call
// Validate on the result for that.
func Build(raw RawSchema, opts BuildOptions) (*ParsedSchema, error) {
	schema := &ParsedSchema{
		Models:             make([]ParsedModel, 0, len(raw.Models)),
		Enums:              make([]ParsedEnum, 0, len(raw.Enums)),
		ModelMap:           make(map[string]*ParsedModel, len(raw.Models)),
		EnumMap:            make(map[string]*ParsedEnum, len(raw.Enums)),
		ReverseRelationMap: make(map[string][]ParsedField),
	}

	for _, re := range raw.Enums {
		schema.Enums = append(schema.Enums, ParsedEnum{
			Name:          re.Name,
			Values:        append([]string(nil), re.Values...),
			Documentation: SanitizeDocumentation(re.Documentation),
		})
	}

	for _, rm := range raw.Models {
		model, err := buildModel(rm)
		if err != nil {
			return nil, fmt.Errorf("building model %q: %w", rm.Name, err)
		}
		schema.Models = append(schema.Models, model)
	}

	for i := range schema.Models {
		schema.ModelMap[schema.Models[i].Name] = &schema.Models[i]
	}
	for i := range schema.Enums {
		schema.EnumMap[schema.Enums[i].Name] = &schema.Enums[i]
	}

	for i := range schema.Models {
		m := &schema.Models[i]
		for _, f := range m.RelationFields() {
			if f.Type == "" {
				continue
			}
			schema.ReverseRelationMap[f.Type] = append(schema.ReverseRelationMap[f.Type], f)
		}
	}

	if opts.Freeze {
		schema.frozen = true
	}

	return schema, nil
}

func buildModel(rm RawModel) (ParsedModel, error) {
	model := ParsedModel{
		Name:          rm.Name,
		NameLower:     strings.ToLower(rm.Name),
		DbName:        rm.DbName,
		Documentation: SanitizeDocumentation(rm.Documentation),
		Fields:            make([]ParsedField, 0, len(rm.Fields)),
		UniqueFields:      rm.UniqueFields,
		PrimaryKey:        rm.PrimaryKey,
		RealtimeBroadcast: rm.RealtimeBroadcast,
	}

	for _, rf := range rm.Fields {
		field, err := buildField(rf, rm.Name)
		if err != nil {
			return ParsedModel{}, fmt.Errorf("field %q: %w", rf.Name, err)
		}
		if field.IsID {
			fCopy := field
			model.IDField = &fCopy
		}
		model.Fields = append(model.Fields, field)
	}
	// IDField must point into the final slice, not a detached copy, so
	// mutations observed by callers stay consistent with model.Fields.
	for i := range model.Fields {
		if model.Fields[i].IsID {
			model.IDField = &model.Fields[i]
			break
		}
	}
	model.buildIndex()
	return model, nil
}

func buildField(rf RawField, modelName string) (ParsedField, error) {
	kind := FieldKind(rf.Kind)
	switch kind {
	case KindScalar, KindEnum, KindObject:
	default:
		kind = KindScalar
	}

	if kind == KindObject && len(rf.RelationFromFields) != len(rf.RelationToFields) {
		return ParsedField{}, fmt.Errorf("relationFromFields/relationToFields length mismatch (%d vs %d)",
			len(rf.RelationFromFields), len(rf.RelationToFields))
	}

	def, hasDbDefault, isReadOnly := classifyDefault(rf)

	field := ParsedField{
		Name:                        rf.Name,
		NameLower:                   strings.ToLower(rf.Name),
		Type:                        rf.Type,
		Kind:                        kind,
		IsRequired:                  rf.IsRequired,
		IsList:                      rf.IsList,
		IsID:                        rf.IsId,
		IsUnique:                    rf.IsUnique,
		IsUpdatedAt:                 rf.IsUpdatedAt,
		HasDefaultValue:             rf.HasDefaultValue,
		HasDbDefault:                hasDbDefault,
		IsReadOnly:                  isReadOnly,
		Default:                     def,
		RelationName:                rf.RelationName,
		RelationFromFields:          append([]string(nil), rf.RelationFromFields...),
		RelationToFields:            append([]string(nil), rf.RelationToFields...),
		IsSelfRelation:              kind == KindObject && rf.Type == modelName,
		Documentation:               SanitizeDocumentation(rf.Documentation),
		IsPartOfCompositePrimaryKey: false,
	}
	return field, nil
}

// classifyDefault implements renderDefault's classification half (spec.md
// Validator rule 7): it decides what kind of default a field carries and
// whether the field counts as DB-managed / read-only as a result. The
// rendering half (turning a Default into source text) lives with each
// target-language emitter, since the textual form is language-specific;
// this function only needs to decide the *shape*.
func classifyDefault(rf RawField) (Default, hasDbDefault bool, isReadOnly bool) {
	if !rf.HasDefaultValue || rf.Default == nil {
		return Default{Kind: DefaultNone}, false, rf.IsId && rf.Kind != "object"
	}

	switch v := rf.Default.(type) {
	case string:
		switch v {
		case "now()":
			return Default{Kind: DefaultNow, Function: "now"}, false, false
		case "autoincrement()", "uuid()", "cuid()":
			name := strings.TrimSuffix(v, "()")
			return Default{Kind: DefaultDBFunction, Function: name}, true, true
		default:
			return Default{Kind: DefaultLiteral, Literal: v}, false, false
		}
	case map[string]interface{}:
		// DMMF represents function-style and enum-ref defaults as an
		// object: {"name": "autoincrement", "args": []} or
		// {"enum": "Role", "value": "ADMIN"}.
		if name, ok := v["name"].(string); ok {
			switch name {
			case "now":
				return Default{Kind: DefaultNow, Function: "now"}, false, false
			case "autoincrement", "uuid", "cuid":
				return Default{Kind: DefaultDBFunction, Function: name}, true, true
			}
		}
		if enumName, ok := v["enum"].(string); ok {
			value, _ := v["value"].(string)
			return Default{Kind: DefaultEnumRef, EnumName: enumName, EnumValue: value}, false, false
		}
		return Default{Kind: DefaultUnhandled}, false, false
	case bool, float64:
		return Default{Kind: DefaultLiteral, Literal: v}, false, false
	case nil:
		return Default{Kind: DefaultLiteral, Literal: nil}, false, false
	default:
		// BigInt/Decimal and anything else not handled: spec.md Validator
		// rule 7 says emit warn and return undefined at render time; here
		// we just mark the shape as unhandled so the Validator can surface
		// the diagnostic with full model/field context.
		return Default{Kind: DefaultUnhandled}, false, false
	}
}

// SanitizeDocumentation implements Validator rule 8: collapse multi-line
// doc comments to one line, collapse whitespace, and neutralize sequences
// that would break out of a generated block comment or template literal.
func SanitizeDocumentation(doc string) string {
	if doc == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"*/", "* /",
		"/*", "/ *",
		"//", "/ /",
		"`", "\\`",
	)
	s := replacer.Replace(doc)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
