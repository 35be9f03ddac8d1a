package ir

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ValidateOptions controls Validate's behavior.
type ValidateOptions struct {
	// ThrowOnError fails with *InvalidSchema when any error-or-worse
	// diagnostic was recorded (spec.md §4.1 "validate(schema,
	// throwOnError=true)").
	ThrowOnError bool
}

// Validate runs the exhaustive rule set of spec.md §4.1 rules 1-8 over the
// schema and returns the accumulated diagnostics. It never mutates schema.
func Validate(schema *ParsedSchema, opts ValidateOptions) (Diagnostics, error) {
	var diags Diagnostics

	for i := range schema.Models {
		m := &schema.Models[i]
		rulePrimaryKey(m, &diags)
		ruleRelationFields(m, schema, &diags)
		ruleEnumReferences(m, schema, &diags)
		ruleSelfRelation(m, &diags)
		ruleUniqueFieldsExist(m, &diags)
		ruleDefaults(m, &diags)
		ruleDocumentation(m, &diags)
	}

	ruleRequiredCycles(schema, &diags)

	if opts.ThrowOnError && diags.HasErrors() {
		return diags, &InvalidSchema{Diagnostics: diags}
	}
	return diags, nil
}

// rule 1: every model has an id or a composite primary key.
func rulePrimaryKey(m *ParsedModel, diags *Diagnostics) {
	if m.IDField != nil {
		return
	}
	if m.PrimaryKey != nil && len(m.PrimaryKey.Fields) >= 2 {
		return
	}
	diags.push(Diagnostic{
		Severity:  SeverityError,
		ModelName: m.Name,
		Rule:      "primary-key-required",
		Message:   "model has neither a single id field nor a composite primary key of length >= 2",
	})
}

// rule 2: every relation field has matching relationFromFields/
// relationToFields, equal length >= 1, referencing existing fields typed
// consistently.
func ruleRelationFields(m *ParsedModel, schema *ParsedSchema, diags *Diagnostics) {
	for _, f := range m.RelationFields() {
		if len(f.RelationFromFields) == 0 && len(f.RelationToFields) == 0 {
			// reverse/virtual side of the relation carries no FK; that's
			// expected and not an error.
			continue
		}
		if len(f.RelationFromFields) != len(f.RelationToFields) {
			diags.push(Diagnostic{
				Severity:  SeverityError,
				ModelName: m.Name,
				FieldName: f.Name,
				Rule:      "relation-field-length-mismatch",
				Message:   fmt.Sprintf("relationFromFields has %d entries, relationToFields has %d", len(f.RelationFromFields), len(f.RelationToFields)),
			})
			continue
		}
		for _, from := range f.RelationFromFields {
			if _, ok := m.FieldByNameLower(lower(from)); !ok {
				diags.push(Diagnostic{
					Severity:   SeverityError,
					ModelName:  m.Name,
					FieldName:  f.Name,
					Rule:       "relation-from-field-missing",
					Message:    fmt.Sprintf("relationFromFields references %q, which does not exist on %s", from, m.Name),
					Suggestion: suggest(from, fieldNames(m)),
				})
			}
		}
		target, ok := schema.ModelMap[f.Type]
		if !ok {
			continue // reported separately as an unresolved type, not a relation-field issue
		}
		for _, to := range f.RelationToFields {
			if _, ok := target.FieldByNameLower(lower(to)); !ok {
				diags.push(Diagnostic{
					Severity:   SeverityError,
					ModelName:  m.Name,
					FieldName:  f.Name,
					Rule:       "relation-to-field-missing",
					Message:    fmt.Sprintf("relationToFields references %q, which does not exist on %s", to, f.Type),
					Suggestion: suggest(to, fieldNames(target)),
				})
			}
		}
	}
}

// rule 3: every enum reference resolves in enumMap; unresolved kind==enum
// fields emit a warn with the referenced type and model.field location.
func ruleEnumReferences(m *ParsedModel, schema *ParsedSchema, diags *Diagnostics) {
	for _, f := range m.Fields {
		if f.Kind != KindEnum {
			continue
		}
		if _, ok := schema.EnumMap[f.Type]; ok {
			continue
		}
		diags.push(Diagnostic{
			Severity:   SeverityWarn,
			ModelName:  m.Name,
			FieldName:  f.Name,
			Rule:       "unresolved-enum-reference",
			Message:    fmt.Sprintf("field references enum %q, which is not declared in the schema", f.Type),
			Suggestion: suggest(f.Type, enumNames(schema)),
		})
	}
}

// rule 4: self-referencing required non-nullable relations are fatal.
func ruleSelfRelation(m *ParsedModel, diags *Diagnostics) {
	for _, f := range m.RelationFields() {
		if f.Type != m.Name {
			continue
		}
		if f.IsList {
			continue // a self-referencing list side can never be the
			// "required, non-nullable" scalar FK side that makes insertion
			// impossible.
		}
		if f.IsRequired {
			diags.push(Diagnostic{
				Severity:  SeverityFatal,
				ModelName: m.Name,
				FieldName: f.Name,
				Rule:      "impossible-self-relation",
				Message:   "self-relation is required and non-nullable on both sides; no row could ever be inserted",
			})
		}
	}
}

// rule 6: uniqueFields referenced names exist on the model.
func ruleUniqueFieldsExist(m *ParsedModel, diags *Diagnostics) {
	for _, group := range m.UniqueFields {
		for _, name := range group {
			if _, ok := m.FieldByNameLower(lower(name)); !ok {
				diags.push(Diagnostic{
					Severity:   SeverityError,
					ModelName:  m.Name,
					Rule:       "unique-field-missing",
					Message:    fmt.Sprintf("uniqueFields references %q, which does not exist on %s", name, m.Name),
					Suggestion: suggest(name, fieldNames(m)),
				})
			}
		}
	}
}

// rule 7: defaults pass through classifyDefault cleanly; BigInt/Decimal and
// anything unrecognized is a warn, not a hard failure.
func ruleDefaults(m *ParsedModel, diags *Diagnostics) {
	for _, f := range m.Fields {
		if f.Default.Kind == DefaultUnhandled {
			diags.push(Diagnostic{
				Severity:  SeverityWarn,
				ModelName: m.Name,
				FieldName: f.Name,
				Rule:      "default-not-rendered",
				Message:   "default value shape is not handled (likely BigInt/Decimal); render returns undefined, caller must supply an override",
			})
		}
		if f.Default.Kind == DefaultEnumRef {
			enumOK := false
			// resolved against schema by caller context; here we only
			// check the ref is well-formed (non-empty names).
			if f.Default.EnumName != "" && f.Default.EnumValue != "" {
				enumOK = true
			}
			if !enumOK {
				diags.push(Diagnostic{
					Severity:  SeverityWarn,
					ModelName: m.Name,
					FieldName: f.Name,
					Rule:      "malformed-enum-default",
					Message:   "enum default is missing an enum name or value",
				})
			}
		}
	}
}

// rule 8: documentation sanitized. Validate only checks idempotence (a
// double-sanitize should be a no-op); the sanitization itself runs during
// Build (classifyDefault/SanitizeDocumentation).
func ruleDocumentation(m *ParsedModel, diags *Diagnostics) {
	if m.Documentation != SanitizeDocumentation(m.Documentation) {
		diags.push(Diagnostic{
			Severity:  SeverityWarn,
			ModelName: m.Name,
			Rule:      "documentation-not-sanitized",
			Message:   "model documentation was not sanitized before reaching the Validator",
		})
	}
}

// relationEdge is one directed required/optional relation edge used by the
// cycle detector below.
type relationEdge struct {
	required bool
	to       string
}

// rule 5: required cycles across models are error (cycle listed); optional
// cycles are info.
func ruleRequiredCycles(schema *ParsedSchema, diags *Diagnostics) {
	graph := make(map[string][]relationEdge, len(schema.Models))
	for i := range schema.Models {
		m := &schema.Models[i]
		for _, f := range m.RelationFields() {
			if f.IsList {
				continue // list sides do not force insertion order
			}
			if _, ok := schema.ModelMap[f.Type]; !ok {
				continue
			}
			graph[m.Name] = append(graph[m.Name], relationEdge{required: f.IsRequired, to: f.Type})
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(schema.Models))
	var path []string
	reported := make(map[string]bool)

	var visit func(node string)
	visit = func(node string) {
		color[node] = gray
		path = append(path, node)
		for _, e := range graph[node] {
			switch color[e.to] {
			case white:
				visit(e.to)
			case gray:
				cycle := cyclePath(path, e.to)
				key := fmt.Sprint(cycle)
				if reported[key] {
					continue
				}
				reported[key] = true
				sev := SeverityInfo
				if allRequiredInCycle(graph, cycle) {
					sev = SeverityError
				}
				diags.push(Diagnostic{
					Severity:  sev,
					ModelName: node,
					Rule:      "relation-cycle",
					Message:   fmt.Sprintf("cycle detected: %v", cycle),
				})
			}
		}
		path = path[:len(path)-1]
		color[node] = black
	}

	names := make([]string, 0, len(schema.Models))
	for i := range schema.Models {
		names = append(names, schema.Models[i].Name)
	}
	for _, n := range names {
		if color[n] == white {
			visit(n)
		}
	}
}

func cyclePath(path []string, closeAt string) []string {
	for i, n := range path {
		if n == closeAt {
			out := append([]string(nil), path[i:]...)
			return append(out, closeAt)
		}
	}
	return append([]string(nil), path...)
}

func allRequiredInCycle(graph map[string][]relationEdge, cycle []string) bool {
	for i := 0; i < len(cycle)-1; i++ {
		from, to := cycle[i], cycle[i+1]
		found := false
		for _, e := range graph[from] {
			if e.to == to && e.required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func fieldNames(m *ParsedModel) []string {
	out := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = f.Name
	}
	return out
}

func enumNames(schema *ParsedSchema) []string {
	out := make([]string, len(schema.Enums))
	for i, e := range schema.Enums {
		out[i] = e.Name
	}
	return out
}

// suggest returns the closest candidate by edit distance, used to populate
// Diagnostic.Suggestion, the same way an IDE's "did you mean" hint works.
// Empty when no candidate is close enough to be useful.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist < 0 || bestDist > 3 {
		return ""
	}
	return best
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
