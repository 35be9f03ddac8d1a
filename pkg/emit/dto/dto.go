// Package dto implements the DTO Emitter (spec.md §4.5.1): per model,
// emits CreateDTO, UpdateDTO, QueryDTO, ReadDTO as Go structs. Grounded on
// 2lar-b2/backend2's request-struct shapes (interfaces/http/rest request
// types carrying validator tags), generalized from hand-written structs
// to ones derived from ir.ParsedModel + analyzer.ModelAnalysis.
package dto

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/gotype"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

// Emitter renders DTO files for one model at a time, matching
// phase.ModelEmitFunc's signature.
type Emitter struct {
	Layout *layout.Layout
}

// New returns a DTO Emitter bound to a Layout.
func New(l *layout.Layout) *Emitter {
	return &Emitter{Layout: l}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	var diags []ir.Diagnostic

	if model.PrimaryKey != nil && len(model.PrimaryKey.Fields) == 0 {
		diags = append(diags, ir.Diagnostic{
			Severity:  ir.SeverityError,
			ModelName: model.Name,
			Message:   fmt.Sprintf("model %s declares a composite primary key with no constituent fields", model.Name),
		})
		return nil, diags
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package contracts\n\n")

	imports := append([]string{"github.com/schemagen/schemagen/gen/validators"}, collectImports(model)...)
	b.WriteString("import (\n")
	for _, imp := range imports {
		fmt.Fprintf(&b, "\t%q\n", imp)
	}
	b.WriteString(")\n\n")

	renderAliasedDTOs(&b, model)
	renderQueryDTO(&b, model, cfg)
	if err := renderReadDTO(&b, model); err != nil {
		diags = append(diags, unknownScalarDiag(model.Name, err))
		return nil, diags
	}

	file := filemap.GeneratedFile{
		Path:        e.Layout.PathFor(layout.KindContract, model.NameLower),
		Contents:    b.String(),
		Category:    "contract",
		Overridable: false,
	}
	return []filemap.GeneratedFile{file}, diags
}

func unknownScalarDiag(modelName string, err error) ir.Diagnostic {
	return ir.Diagnostic{Severity: ir.SeverityError, ModelName: modelName, Message: err.Error()}
}

func collectImports(model *ir.ParsedModel) []string {
	needsTime := false
	needsJSON := false
	for _, f := range model.Fields {
		if f.Kind != ir.KindScalar {
			continue
		}
		typ, err := gotype.Resolve(model.Name, &f)
		if err != nil {
			continue
		}
		needsTime = needsTime || gotype.NeedsTimeImport(typ)
		needsJSON = needsJSON || gotype.NeedsJSONImport(typ)
	}
	var out []string
	if needsJSON {
		out = append(out, "encoding/json")
	}
	if needsTime {
		out = append(out, "time")
	}
	sort.Strings(out)
	return out
}

// renderAliasedDTOs emits Create/UpdateDTO as aliases of the validator
// module's inferred request types (spec.md §4.5.2: "DTO types import and
// alias those inferred types; they are not independently redefined"),
// rather than redeclaring the struct shape here.
func renderAliasedDTOs(b *strings.Builder, model *ir.ParsedModel) {
	fmt.Fprintf(b, "// Create%sDTO is the input shape for creating a %s, re-exported\n", model.Name, model.Name)
	fmt.Fprintf(b, "// from the validator module rather than independently redefined.\n")
	fmt.Fprintf(b, "type Create%sDTO = validators.Create%sRequest\n\n", model.Name, model.Name)
	fmt.Fprintf(b, "// Update%sDTO is the input shape for updating a %s; every member is\n", model.Name, model.Name)
	fmt.Fprintf(b, "// optional. Re-exported from the validator module.\n")
	fmt.Fprintf(b, "type Update%sDTO = validators.Update%sRequest\n\n", model.Name, model.Name)
}

func renderQueryDTO(b *strings.Builder, model *ir.ParsedModel, cfg *genconfig.Config) {
	maxTake := 100
	if cfg != nil && cfg.MaxTake > 0 {
		maxTake = cfg.MaxTake
	}

	fmt.Fprintf(b, "// Query%sDTO is the input shape for listing %s records.\n", model.Name, model.Name)
	fmt.Fprintf(b, "type Query%sDTO struct {\n", model.Name)
	b.WriteString("\tWhere   map[string]interface{} `json:\"where,omitempty\"`\n")
	b.WriteString("\tOrderBy map[string]string      `json:\"orderBy,omitempty\"`\n")
	b.WriteString("\tSkip    *int                   `json:\"skip,omitempty\"`\n")
	fmt.Fprintf(b, "\tTake    *int                   `json:\"take,omitempty\"` // bounded to [1, %d]\n", maxTake)

	if model.IDField != nil {
		idType, err := gotype.Resolve(model.Name, model.IDField)
		if err == nil {
			idType = strings.TrimPrefix(idType, "*")
			fmt.Fprintf(b, "\tCursor  *%s `json:\"cursor,omitempty\"`\n", idType)
		}
	}
	b.WriteString("}\n\n")
}

func renderReadDTO(b *strings.Builder, model *ir.ParsedModel) error {
	fmt.Fprintf(b, "// Read%sDTO reflects every stored field of %s.\n", model.Name, model.Name)
	fmt.Fprintf(b, "type Read%sDTO struct {\n", model.Name)
	for _, f := range model.ReadFields() {
		typ, err := gotype.Resolve(model.Name, &f)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "\t%s %s `json:%q`\n", exportedFieldName(f.Name), typ, f.NameLower)
	}
	b.WriteString("}\n")
	return nil
}

func exportedFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
