// Package validatorschema implements the Validator Emitter (spec.md
// §4.5.2): per model, emits go-playground/validator struct tags on
// Create/Update/Query request types into gen/validators, the single
// source of truth the DTO emitter's CreateDTO/UpdateDTO import and alias
// rather than redefine (spec.md: "Validators are emitted into a module
// whose inferred types are re-exported. DTO types import and alias those
// inferred types"). Grounded on
// 2lar-b2/backend2/pkg/utils/validation.go's validate.Struct(body) usage
// and its request-struct validate tags.
package validatorschema

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/gotype"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

// Emitter renders the validator-tagged request types for one model.
type Emitter struct {
	Layout *layout.Layout
	// SlugFormatHint enables the opt-in email/slug format constraint
	// (spec.md §4.5.2: "may carry a format constraint as a hint
	// (opt-in by config)").
	SlugFormatHint bool
}

// New returns a Validator Emitter bound to a Layout.
func New(l *layout.Layout, slugFormatHint bool) *Emitter {
	return &Emitter{Layout: l, SlugFormatHint: slugFormatHint}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	maxTake := 100
	if cfg != nil && cfg.MaxTake > 0 {
		maxTake = cfg.MaxTake
	}

	var b strings.Builder
	b.WriteString("package validators\n\n")

	renderValidatedStruct(&b, fmt.Sprintf("Create%sRequest", model.Name), model.CreateFields(), model, e.SlugFormatHint, false)
	renderValidatedStruct(&b, fmt.Sprintf("Update%sRequest", model.Name), model.UpdateFields(), model, e.SlugFormatHint, true)
	renderQueryValidator(&b, model, maxTake)

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindValidator, model.NameLower),
		Contents: b.String(),
		Category: "validator",
	}
	return []filemap.GeneratedFile{file}, nil
}

// renderValidatedStruct renders one request type. allOptional forces every
// member to be a pointer (UpdateRequest's "every member is optional"
// rule); on CreateRequest, only client-managed-default or nullable fields
// become optional, mirroring the same rule the DTO emitter used to apply
// directly before it began aliasing this module's types.
func renderValidatedStruct(b *strings.Builder, typeName string, fields []ir.ParsedField, model *ir.ParsedModel, slugHint, allOptional bool) {
	fmt.Fprintf(b, "type %s struct {\n", typeName)
	for _, f := range fields {
		typ, err := gotype.Resolve(model.Name, &f)
		if err != nil {
			continue
		}
		optional := allOptional || f.HasDefaultValue || f.IsNullable()
		if optional && !strings.HasPrefix(typ, "*") && !strings.HasPrefix(typ, "[]") {
			typ = "*" + typ
		}
		tag := gotype.ValidateTag(&f, slugHint)
		if optional && tag != "" {
			tag = "omitempty," + tag
		} else if optional {
			tag = "omitempty"
		}
		fieldName := exportedFieldName(f.Name)
		fmt.Fprintf(b, "\t%s %s `json:%q validate:%q`\n", fieldName, typ, f.NameLower, tag)
	}
	b.WriteString("}\n\n")
}

func renderQueryValidator(b *strings.Builder, model *ir.ParsedModel, maxTake int) {
	fmt.Fprintf(b, "// Query%sRequest bounds take to [1, %d] and requires skip >= 0,\n", model.Name, maxTake)
	b.WriteString("// per the Query Validator's take/skip constraints.\n")
	fmt.Fprintf(b, "type Query%sRequest struct {\n", model.Name)
	fmt.Fprintf(b, "\tSkip *int `json:\"skip,omitempty\" validate:\"omitempty,gte=0\"`\n")
	fmt.Fprintf(b, "\tTake *int `json:\"take,omitempty\" validate:\"omitempty,gte=1,lte=%d\"`\n", maxTake)
	b.WriteString("}\n\n")
}

func exportedFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
