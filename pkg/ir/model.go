// Package ir defines the immutable intermediate representation the rest of
// the generation pipeline consumes: the parsed schema produced by an
// upstream, DMMF-shaped front end, already normalized and ready to analyze.
package ir

// FieldKind classifies what a ParsedField's Type refers to.
type FieldKind string

const (
	KindScalar FieldKind = "scalar"
	KindEnum   FieldKind = "enum"
	KindObject FieldKind = "object"
)

// DefaultKind classifies the shape of a ParsedField's default value.
type DefaultKind string

const (
	DefaultNone       DefaultKind = ""
	DefaultLiteral    DefaultKind = "literal"
	DefaultEnumRef    DefaultKind = "enumRef"
	DefaultDBFunction DefaultKind = "dbFunction"
	DefaultNow        DefaultKind = "now"
	DefaultUnhandled  DefaultKind = "unhandled"
)

// Default describes a field's declared default value.
type Default struct {
	Kind      DefaultKind
	Literal   interface{} // string | float64 | bool | nil, only when Kind == DefaultLiteral
	EnumName  string      // set when Kind == DefaultEnumRef
	EnumValue string      // set when Kind == DefaultEnumRef
	Function  string      // set when Kind == DefaultDBFunction (autoincrement/uuid/cuid) or DefaultNow
}

// ParsedField is one attribute of a model.
type ParsedField struct {
	Name       string
	NameLower  string
	Type       string // scalar kind name | enum name | model name
	Kind       FieldKind
	IsRequired bool
	IsList     bool
	IsID       bool
	IsUnique   bool
	IsUpdatedAt bool
	HasDefaultValue bool
	HasDbDefault    bool
	IsReadOnly      bool
	Default         Default

	RelationName       string
	RelationFromFields []string
	RelationToFields   []string
	IsSelfRelation     bool

	IsPartOfCompositePrimaryKey bool
	Documentation               string
}

// IsNullable is the logical complement of IsRequired.
func (f *ParsedField) IsNullable() bool { return !f.IsRequired }

// IsDbManagedTimestamp reports whether the field is a DB-managed timestamp
// (e.g. createdAt with a DB default, or updatedAt).
func (f *ParsedField) IsDbManagedTimestamp() bool {
	if f.IsUpdatedAt {
		return true
	}
	return f.NameLower == "createdat" && f.HasDbDefault
}

// ParsedEnum is a named, ordered set of string values.
type ParsedEnum struct {
	Name          string
	Values        []string
	Documentation string
}

// PrimaryKey describes a composite (or named single) primary key.
type PrimaryKey struct {
	Name   string
	Fields []string
}

// ParsedModel is one entity in the schema.
type ParsedModel struct {
	Name          string
	NameLower     string
	DbName        string
	Documentation string

	Fields []ParsedField

	IDField     *ParsedField
	UniqueFields [][]string
	PrimaryKey   *PrimaryKey

	RealtimeBroadcast []string

	// fieldsByNameLower is a precomputed index built once in Freeze/index.
	fieldsByNameLower map[string]*ParsedField
}

// ScalarFields returns fields whose Kind is KindScalar or KindEnum (not relations).
func (m *ParsedModel) ScalarFields() []ParsedField {
	out := make([]ParsedField, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Kind != KindObject {
			out = append(out, f)
		}
	}
	return out
}

// RelationFields returns fields whose Kind is KindObject.
func (m *ParsedModel) RelationFields() []ParsedField {
	out := make([]ParsedField, 0)
	for _, f := range m.Fields {
		if f.Kind == KindObject {
			out = append(out, f)
		}
	}
	return out
}

// CreateFields returns the fields that belong on a Create input: every
// field except ones that are read-only or DB-managed timestamps. Relation
// list fields are excluded; scalar FK fields on the owning side are
// included.
func (m *ParsedModel) CreateFields() []ParsedField {
	out := make([]ParsedField, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Kind == KindObject && f.IsList {
			continue
		}
		if f.IsReadOnly || f.IsDbManagedTimestamp() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// UpdateFields returns the fields that belong on an Update input: every
// CreateField minus the id field and minus IsUpdatedAt fields (DB-managed
// on update too).
func (m *ParsedModel) UpdateFields() []ParsedField {
	create := m.CreateFields()
	out := make([]ParsedField, 0, len(create))
	for _, f := range create {
		if f.IsID || f.IsUpdatedAt {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ReadFields returns every stored field (scalars, enums, and singular
// relations) as they'd appear in a fully hydrated read model.
func (m *ParsedModel) ReadFields() []ParsedField {
	out := make([]ParsedField, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Kind == KindObject && f.IsList {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FieldByNameLower looks up a field by its lowercased name, building the
// index on first use.
func (m *ParsedModel) FieldByNameLower(nameLower string) (*ParsedField, bool) {
	if m.fieldsByNameLower == nil {
		m.buildIndex()
	}
	f, ok := m.fieldsByNameLower[nameLower]
	return f, ok
}

func (m *ParsedModel) buildIndex() {
	m.fieldsByNameLower = make(map[string]*ParsedField, len(m.Fields))
	for i := range m.Fields {
		f := &m.Fields[i]
		m.fieldsByNameLower[f.NameLower] = f
	}
}

// ParsedSchema is the frozen, indexed view of the whole schema.
type ParsedSchema struct {
	Models []ParsedModel
	Enums  []ParsedEnum

	ModelMap           map[string]*ParsedModel
	EnumMap            map[string]*ParsedEnum
	ReverseRelationMap map[string][]ParsedField

	frozen bool
}

// ReverseRelationsFor returns the fields on other models that reference
// targetModel.
func (s *ParsedSchema) ReverseRelationsFor(targetModel string) []ParsedField {
	return s.ReverseRelationMap[targetModel]
}

// Frozen reports whether the schema has been deep-frozen.
func (s *ParsedSchema) Frozen() bool { return s.frozen }
