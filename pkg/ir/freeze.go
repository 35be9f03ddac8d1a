package ir

import "fmt"

// ErrFrozen is returned (or panicked, via MustX variants) when a caller
// attempts to mutate a ParsedSchema after Build ran with Freeze=true.
var ErrFrozen = fmt.Errorf("ir: schema is frozen")

// AddModel appends a model to an unfrozen schema. It is the only mutation
// path the package exposes post-Build, used by tests that assemble a
// schema incrementally before freezing it themselves.
func (s *ParsedSchema) AddModel(m ParsedModel) error {
	if s.frozen {
		return ErrFrozen
	}
	m.buildIndex()
	s.Models = append(s.Models, m)
	s.ModelMap[m.Name] = &s.Models[len(s.Models)-1]
	return nil
}

// Freeze deep-freezes the schema: after this call, AddModel and any other
// mutator on ParsedSchema returns ErrFrozen. Freeze is idempotent.
func (s *ParsedSchema) Freeze() {
	s.frozen = true
}

// Clone returns a deep, unfrozen copy of the schema, useful for tests that
// need to mutate a frozen fixture.
func (s *ParsedSchema) Clone() *ParsedSchema {
	clone := &ParsedSchema{
		Models:             append([]ParsedModel(nil), s.Models...),
		Enums:              append([]ParsedEnum(nil), s.Enums...),
		ModelMap:           make(map[string]*ParsedModel, len(s.ModelMap)),
		EnumMap:            make(map[string]*ParsedEnum, len(s.EnumMap)),
		ReverseRelationMap: make(map[string][]ParsedField, len(s.ReverseRelationMap)),
	}
	for i := range clone.Models {
		clone.Models[i].fieldsByNameLower = nil
		clone.Models[i].buildIndex()
		clone.ModelMap[clone.Models[i].Name] = &clone.Models[i]
	}
	for i := range clone.Enums {
		clone.EnumMap[clone.Enums[i].Name] = &clone.Enums[i]
	}
	for k, v := range s.ReverseRelationMap {
		clone.ReverseRelationMap[k] = append([]ParsedField(nil), v...)
	}
	return clone
}
