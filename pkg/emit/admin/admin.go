// Package admin implements the fieldMappings-driven admin-scaffolding
// emitter (SPEC_FULL.md §6): a minimal gen/admin/{model}.json sidecar
// exposing the config's field-mapping overrides, or a fuzzy-matched best
// guess when none is given, so that fieldMappings/globalFieldOverrides is
// never dead config input. Grounded on pkg/ir/validate.go's
// levenshtein-based "did you mean" suggestion helper, reused here as a
// confidence score instead of an error-message hint.
package admin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

// adminConcepts are the canonical admin-widget labels a field name is
// fuzzy-matched against when config carries no explicit override.
var adminConcepts = []string{
	"email", "password", "name", "title", "slug", "description",
	"status", "price", "amount", "quantity", "image", "avatar",
	"url", "date", "createdAt", "updatedAt", "phone", "address",
}

// FieldHint is one field's admin-scaffolding metadata.
type FieldHint struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
}

// Hint is the sidecar document written per model.
type Hint struct {
	Model  string      `json:"model"`
	Label  string      `json:"label"`
	Fields []FieldHint `json:"fields"`
}

// Emitter renders the admin-hint sidecar file for one model.
type Emitter struct {
	Layout *layout.Layout
}

// New returns an Admin Emitter.
func New(l *layout.Layout) *Emitter {
	return &Emitter{Layout: l}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	fm := cfg.FieldMappings
	ignored := make(map[string]bool, len(fm.Ignore))
	for _, name := range fm.Ignore {
		ignored[strings.ToLower(name)] = true
	}

	label := model.Name
	if l, ok := fm.Models[model.Name]; ok && l != "" {
		label = l
	}

	var diags []ir.Diagnostic
	hint := Hint{Model: model.Name, Label: label, Fields: []FieldHint{}}

	for _, f := range model.Fields {
		if ignored[f.NameLower] {
			continue
		}

		fieldLabel, confidence := resolveFieldHint(model.Name, f, fm)
		if confidence < fm.MinConfidence {
			diags = append(diags, ir.Diagnostic{
				Severity:  ir.SeverityInfo,
				ModelName: model.Name,
				FieldName: f.Name,
				Rule:      "admin-field-mapping",
				Message:   fmt.Sprintf("admin hint for %s.%s dropped: confidence %d below minConfidence %d", model.Name, f.Name, confidence, fm.MinConfidence),
			})
			continue
		}

		hint.Fields = append(hint.Fields, FieldHint{Name: f.Name, Label: fieldLabel, Confidence: confidence})
	}

	body, err := json.MarshalIndent(hint, "", "  ")
	if err != nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()}}
	}

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindAdminHint, model.NameLower),
		Contents: string(body) + "\n",
		Category: "admin",
	}
	return []filemap.GeneratedFile{file}, diags
}

// resolveFieldHint picks an admin label for f and a confidence score:
// explicit config overrides (model-specific, then global) are always
// fully confident; absent an override, the field name is fuzzy-matched
// against the canonical admin-widget vocabulary and scored by edit
// distance, the same technique pkg/ir/validate.go uses for "did you mean"
// diagnostics.
func resolveFieldHint(modelName string, f ir.ParsedField, fm genconfig.FieldMappings) (string, int) {
	if modelOverrides, ok := fm.ModelFieldOverrides[modelName]; ok {
		if label, ok := modelOverrides[f.Name]; ok && label != "" {
			return label, 100
		}
	}
	if label, ok := fm.GlobalFieldOverrides[f.NameLower]; ok && label != "" {
		return label, 100
	}

	best := ""
	bestDist := -1
	for _, c := range adminConcepts {
		d := levenshtein.ComputeDistance(f.NameLower, strings.ToLower(c))
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist < 0 {
		return f.Name, 0
	}
	confidence := 100 - bestDist*20
	if confidence < 0 {
		confidence = 0
	}
	return best, confidence
}
