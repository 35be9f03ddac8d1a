// Package analyzer turns IR facts into generation-ready capabilities. It is
// a pure function of (model, schema); it performs no I/O and touches no
// global state, per spec.md §4.2.
package analyzer

import (
	"strings"

	"github.com/schemagen/schemagen/pkg/ir"
)

// RelationKind classifies one relation field's cardinality.
type RelationKind string

const (
	OneToOne   RelationKind = "OneToOne"
	OneToMany  RelationKind = "OneToMany"
	ManyToOne  RelationKind = "ManyToOne"
	ManyToMany RelationKind = "ManyToMany"
	SelfOne    RelationKind = "SelfOne"
	SelfMany   RelationKind = "SelfMany"
)

// Relation describes one relation field's derived shape.
type Relation struct {
	LocalField      string
	TargetModel     string
	TargetField     string
	Kind            RelationKind
	IsOwningSide    bool
	IsJunctionMediated bool
	FK              []string
	PK              []string
}

// SpecialFields records the concept-level fields the analyzer detected by
// name/shape convention.
type SpecialFields struct {
	Slug          string
	Published     string
	PublishedAt   string
	SoftDelete    string
	CreatedAt     string
	UpdatedAt     string
	UniqueLookups []string
}

// Capabilities summarizes what CRUD surface a model supports.
type Capabilities struct {
	SupportsCRUD       bool
	SupportsSearch     bool
	SupportsSoftDelete bool
	SupportsRealtime   bool
	IsJunction         bool
	IsReadOnly         bool
}

// ModelAnalysis is the Analyzer's complete output for one model.
type ModelAnalysis struct {
	ModelName     string
	Relations     []Relation
	SpecialFields SpecialFields
	Capabilities  Capabilities
	Fingerprint   string
}

// Diagnostic mirrors ir.Diagnostic's shape; the Analyzer never fails, it
// only ever emits ambiguity diagnostics (spec.md §4.2 "Failure").
type Diagnostic = ir.Diagnostic

// Analyze derives a ModelAnalysis for one model. It is pure: the same
// (model, schema) pair always yields an identical result, independent of
// any other model's analysis.
func Analyze(model *ir.ParsedModel, schema *ir.ParsedSchema) (ModelAnalysis, []Diagnostic) {
	var diags []Diagnostic

	analysis := ModelAnalysis{
		ModelName:   model.Name,
		Fingerprint: schema.ModelFingerprint(model.Name),
	}

	analysis.SpecialFields = detectSpecialFields(model)

	isJunction, junctionDiags := detectJunction(model, schema)
	diags = append(diags, junctionDiags...)

	relations, relDiags := classifyRelations(model, schema, isJunction)
	diags = append(diags, relDiags...)
	analysis.Relations = relations

	analysis.Capabilities = Capabilities{
		SupportsCRUD:       !isJunction,
		SupportsSearch:     hasSearchableField(model),
		SupportsSoftDelete: analysis.SpecialFields.SoftDelete != "",
		SupportsRealtime:   len(model.RealtimeBroadcast) > 0,
		IsJunction:         isJunction,
		IsReadOnly:         isJunction,
	}

	return analysis, diags
}

// nameIndex builds a nameLower -> field pointer map in one pass, per
// spec.md §4.2 "A single pre-indexed map nameLower → field is built once
// per model; detection runs in O(|fields|) total."
func nameIndex(model *ir.ParsedModel) map[string]*ir.ParsedField {
	idx := make(map[string]*ir.ParsedField, len(model.Fields))
	for i := range model.Fields {
		idx[model.Fields[i].NameLower] = &model.Fields[i]
	}
	return idx
}

var slugNames = map[string]bool{"slug": true, "permalink": true, "handle": true}
var softDeleteNames = map[string]bool{"deletedat": true, "archivedat": true}

func detectSpecialFields(model *ir.ParsedModel) SpecialFields {
	idx := nameIndex(model)
	var sf SpecialFields

	for nameLower, f := range idx {
		if slugNames[nameLower] && f.Kind == ir.KindScalar && f.Type == "String" && f.IsUnique {
			sf.Slug = f.Name
		}
		if softDeleteNames[nameLower] && f.Kind == ir.KindScalar && strings.Contains(strings.ToLower(f.Type), "date") && !f.IsRequired {
			sf.SoftDelete = f.Name
		}
		if nameLower == "createdat" {
			sf.CreatedAt = f.Name
		}
		if nameLower == "updatedat" && f.IsUpdatedAt {
			sf.UpdatedAt = f.Name
		}
	}

	if f, ok := idx["published"]; ok && f.Type == "Boolean" {
		sf.Published = f.Name
		if pa, ok := idx["publishedat"]; ok {
			sf.PublishedAt = pa.Name
		}
	}

	for _, group := range model.UniqueFields {
		if len(group) == 1 {
			sf.UniqueLookups = append(sf.UniqueLookups, group[0])
		}
	}
	for i := range model.Fields {
		f := &model.Fields[i]
		if f.IsUnique && f.Kind == ir.KindScalar && !f.IsID {
			sf.UniqueLookups = append(sf.UniqueLookups, f.Name)
		}
	}

	return sf
}

func hasSearchableField(model *ir.ParsedModel) bool {
	for _, f := range model.Fields {
		if f.Kind == ir.KindScalar && f.Type == "String" && !f.IsID {
			return true
		}
	}
	return false
}

// areFieldsUnique verifies that some unique index (the id field, a
// uniqueFields group, or the primary key) equals fieldNames exactly:
// length match + set equality, per spec.md §4.2.
func areFieldsUnique(model *ir.ParsedModel, fieldNames []string) bool {
	target := toSet(fieldNames)

	if model.IDField != nil && len(target) == 1 {
		if _, ok := target[model.IDField.NameLower]; ok {
			return true
		}
	}
	if model.PrimaryKey != nil && setEquals(toSet(model.PrimaryKey.Fields), target) {
		return true
	}
	for _, group := range model.UniqueFields {
		if setEquals(toSet(group), target) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = true
	}
	return out
}

func setEquals(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// detectJunction implements spec.md §4.2's junction-table test: exactly
// two required many-to-one relations whose FK sets together equal the
// model's primary key or a unique composite, and no other non-FK scalar
// data fields beyond timestamps.
func detectJunction(model *ir.ParsedModel, schema *ir.ParsedSchema) (bool, []Diagnostic) {
	var manyToOne []*ir.ParsedField
	var fkFieldNames []string

	for i := range model.Fields {
		f := &model.Fields[i]
		if f.Kind != ir.KindObject || f.IsList {
			continue
		}
		if !f.IsRequired || len(f.RelationFromFields) == 0 {
			continue
		}
		manyToOne = append(manyToOne, f)
		fkFieldNames = append(fkFieldNames, f.RelationFromFields...)
	}

	if len(manyToOne) != 2 {
		return false, nil
	}

	if !areFieldsUnique(model, fkFieldNames) {
		return false, nil
	}

	fkSet := toSet(fkFieldNames)
	for i := range model.Fields {
		f := &model.Fields[i]
		if f.Kind == ir.KindObject {
			continue
		}
		if fkSet[f.NameLower] || f.IsID {
			continue
		}
		if f.NameLower == "createdat" || f.NameLower == "updatedat" {
			continue
		}
		// any other non-FK scalar data field disqualifies the junction
		// classification.
		return false, nil
	}

	return true, nil
}

// classifyRelations implements composite-FK classification and the
// unidirectional-M:N inference from spec.md §4.2.
func classifyRelations(model *ir.ParsedModel, schema *ir.ParsedSchema, isJunction bool) ([]Relation, []Diagnostic) {
	var out []Relation
	var diags []Diagnostic

	for i := range model.Fields {
		f := &model.Fields[i]
		if f.Kind != ir.KindObject {
			continue
		}

		isSelf := f.IsSelfRelation

		if f.IsList {
			rel := Relation{LocalField: f.Name, TargetModel: f.Type, Kind: OneToMany}
			if isSelf {
				rel.Kind = SelfMany
			}

			// unidirectional M:N inference: if the target end of this list
			// relation is itself a junction table, classify this side as
			// M:N rather than 1:N.
			if target, ok := schema.ModelMap[f.Type]; ok {
				targetIsJunction, _ := detectJunction(target, schema)
				if targetIsJunction {
					rel.Kind = ManyToMany
					rel.IsJunctionMediated = true
				}
			}
			out = append(out, rel)
			continue
		}

		// scalar-FK side: classify by what the FK set equals.
		kind := ManyToOne
		owning := len(f.RelationFromFields) > 0
		if owning && areFieldsUnique(model, f.RelationFromFields) {
			kind = OneToOne
		}
		if isSelf {
			if kind == OneToOne {
				kind = SelfOne
			}
		}

		var pk []string
		if target, ok := schema.ModelMap[f.Type]; ok {
			if target.PrimaryKey != nil {
				pk = target.PrimaryKey.Fields
			} else if target.IDField != nil {
				pk = []string{target.IDField.Name}
			}
		}

		rel := Relation{
			LocalField:   f.Name,
			TargetModel:  f.Type,
			TargetField:  strings.Join(f.RelationToFields, ","),
			Kind:         kind,
			IsOwningSide: owning,
			FK:           f.RelationFromFields,
			PK:           pk,
		}
		out = append(out, rel)
	}

	return out, diags
}
