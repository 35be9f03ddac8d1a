// Package service implements the Service Emitter (spec.md §4.5.3): per
// model, a CRUD surface (list/get/create/update/remove), unique-lookup
// convenience methods, and an optional workflow transition() method for
// models with a detected status-enum. Grounded on 2lar-b2/backend2's
// service-layer structuring (constructor-injected repository, plain
// Go error returns propagated rather than swallowed).
package service

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

// Emitter renders the service file for one model.
type Emitter struct {
	Layout *layout.Layout
}

// New returns a Service Emitter bound to a Layout.
func New(l *layout.Layout) *Emitter {
	return &Emitter{Layout: l}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	var diags []ir.Diagnostic
	if model.IDField == nil {
		diags = append(diags, ir.Diagnostic{Severity: ir.SeverityError, ModelName: model.Name, Message: "model has no id field; service emitter requires one"})
		return nil, diags
	}

	idType, err := gotype.Resolve(model.Name, model.IDField)
	if err != nil {
		diags = append(diags, ir.Diagnostic{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()})
		return nil, diags
	}
	idType = strings.TrimPrefix(idType, "*")

	countStrategy := genconfig.CountExact
	if cfg != nil && cfg.CountStrategy != "" {
		countStrategy = cfg.CountStrategy
	}

	workflowField := detectWorkflowField(model)

	var b strings.Builder
	fmt.Fprintf(&b, "package services\n\n")
	if workflowField != nil {
		b.WriteString("import (\n\t\"context\"\n\t\"fmt\"\n\n\t\"github.com/schemagen/schemagen/gen/contracts\"\n)\n\n")
	} else {
		b.WriteString("import (\n\t\"context\"\n\n\t\"github.com/schemagen/schemagen/gen/contracts\"\n)\n\n")
	}

	renderStoreInterface(&b, model, idType)
	renderServiceType(&b, model)
	renderList(&b, model, idType, countStrategy, analysis)
	renderGet(&b, model, idType, analysis)
	renderCreate(&b, model, idType)
	renderUpdate(&b, model, idType)
	renderRemove(&b, model, idType, analysis)
	renderUniqueLookups(&b, model, idType, analysis)

	if workflowField != nil {
		renderTransition(&b, model, idType, workflowField)
	}

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindService, model.NameLower),
		Contents: b.String(),
		Category: "service",
	}
	return []filemap.GeneratedFile{file}, diags
}

func renderStoreInterface(b *strings.Builder, model *ir.ParsedModel, idType string) {
	fmt.Fprintf(b, "// %sStore is the storage seam the %s service is built against; the\n", model.Name, model.Name)
	b.WriteString("// concrete implementation (SQL, in-memory, etc.) is injected at construction.\n")
	fmt.Fprintf(b, "type %sStore interface {\n", model.Name)
	fmt.Fprintf(b, "\tList(ctx context.Context, q contracts.Query%sDTO) ([]contracts.Read%sDTO, int, error)\n", model.Name, model.Name)
	fmt.Fprintf(b, "\tGet(ctx context.Context, id %s) (*contracts.Read%sDTO, error)\n", idType, model.Name)
	fmt.Fprintf(b, "\tCreate(ctx context.Context, in contracts.Create%sDTO) (contracts.Read%sDTO, error)\n", model.Name, model.Name)
	fmt.Fprintf(b, "\tUpdate(ctx context.Context, id %s, in contracts.Update%sDTO) (contracts.Read%sDTO, error)\n", idType, model.Name, model.Name)
	fmt.Fprintf(b, "\tRemove(ctx context.Context, id %s) (bool, error)\n", idType)
	b.WriteString("}\n\n")
}

func renderServiceType(b *strings.Builder, model *ir.ParsedModel) {
	fmt.Fprintf(b, "// %sService exposes the %s CRUD surface. It owns no request validation;\n", model.Name, model.Name)
	b.WriteString("// callers (controllers) are expected to have already validated input.\n")
	fmt.Fprintf(b, "type %sService struct {\n\tstore %sStore\n}\n\n", model.Name, model.Name)
	fmt.Fprintf(b, "// New%sService constructs a %sService over store.\n", model.Name, model.Name)
	fmt.Fprintf(b, "func New%sService(store %sStore) *%sService {\n\treturn &%sService{store: store}\n}\n\n", model.Name, model.Name, model.Name, model.Name)
}

func renderList(b *strings.Builder, model *ir.ParsedModel, idType string, countStrategy genconfig.CountStrategy, analysis analyzer.ModelAnalysis) {
	fmt.Fprintf(b, "// %sPage is the list() result shape: items plus a %s count.\n", model.Name, strings.ToLower(string(countStrategy)))
	fmt.Fprintf(b, "type %sPage struct {\n\tItems []contracts.Read%sDTO `json:\"items\"`\n\tTotal int                    `json:\"total\"`\n}\n\n", model.Name, model.Name)

	softDeleteNote := ""
	if analysis.Capabilities.SupportsSoftDelete {
		softDeleteNote = fmt.Sprintf(" Soft-deleted records (%s set) are excluded unless includeDeleted is true.", analysis.SpecialFields.SoftDelete)
	}
	fmt.Fprintf(b, "// List returns a page of %s records.%s\n", model.Name, softDeleteNote)
	fmt.Fprintf(b, "func (s *%sService) List(ctx context.Context, q contracts.Query%sDTO, includeDeleted bool) (%sPage, error) {\n", model.Name, model.Name, model.Name)
	if analysis.Capabilities.SupportsSoftDelete {
		fmt.Fprintf(b, "\tif !includeDeleted {\n\t\tif q.Where == nil {\n\t\t\tq.Where = map[string]interface{}{}\n\t\t}\n\t\tq.Where[%q] = nil\n\t}\n", analysis.SpecialFields.SoftDelete)
	}
	if countStrategy == genconfig.CountEstimate {
		b.WriteString("\t// countStrategy=estimate: total is a storage-level approximation, not an exact COUNT(*).\n")
	}
	fmt.Fprintf(b, "\titems, total, err := s.store.List(ctx, q)\n\tif err != nil {\n\t\treturn %sPage{}, err\n\t}\n", model.Name)
	fmt.Fprintf(b, "\treturn %sPage{Items: items, Total: total}, nil\n}\n\n", model.Name)
}

func renderGet(b *strings.Builder, model *ir.ParsedModel, idType string, analysis analyzer.ModelAnalysis) {
	fmt.Fprintf(b, "// Get returns one %s by id; a missing id yields the store's not-found error.\n", model.Name)
	fmt.Fprintf(b, "func (s *%sService) Get(ctx context.Context, id %s) (*contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name)
	fmt.Fprintf(b, "\treturn s.store.Get(ctx, id)\n}\n\n")
}

func renderCreate(b *strings.Builder, model *ir.ParsedModel, idType string) {
	fmt.Fprintf(b, "// Create inserts a new %s.\n", model.Name)
	fmt.Fprintf(b, "func (s *%sService) Create(ctx context.Context, in contracts.Create%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, model.Name, model.Name)
	fmt.Fprintf(b, "\treturn s.store.Create(ctx, in)\n}\n\n")
}

func renderUpdate(b *strings.Builder, model *ir.ParsedModel, idType string) {
	fmt.Fprintf(b, "// Update applies a partial update to %s id.\n", model.Name)
	fmt.Fprintf(b, "func (s *%sService) Update(ctx context.Context, id %s, in contracts.Update%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name, model.Name)
	fmt.Fprintf(b, "\treturn s.store.Update(ctx, id, in)\n}\n\n")
}

func renderRemove(b *strings.Builder, model *ir.ParsedModel, idType string, analysis analyzer.ModelAnalysis) {
	if analysis.Capabilities.SupportsSoftDelete {
		fmt.Fprintf(b, "// Remove soft-deletes %s id by setting %s.\n", model.Name, analysis.SpecialFields.SoftDelete)
	} else {
		fmt.Fprintf(b, "// Remove deletes %s id.\n", model.Name)
	}
	fmt.Fprintf(b, "func (s *%sService) Remove(ctx context.Context, id %s) (bool, error) {\n", model.Name, idType)
	fmt.Fprintf(b, "\treturn s.store.Remove(ctx, id)\n}\n\n")
}

func renderUniqueLookups(b *strings.Builder, model *ir.ParsedModel, idType string, analysis analyzer.ModelAnalysis) {
	for _, fieldName := range analysis.SpecialFields.UniqueLookups {
		f, ok := model.FieldByNameLower(strings.ToLower(fieldName))
		if !ok {
			continue
		}
		argType, err := gotype.Resolve(model.Name, f)
		if err != nil {
			continue
		}
		argType = strings.TrimPrefix(argType, "*")
		methodName := fmt.Sprintf("FindBy%s", exportedFieldName(f.Name))
		fmt.Fprintf(b, "// %s looks up one %s by its unique %s.\n", methodName, model.Name, f.Name)
		fmt.Fprintf(b, "func (s *%sService) %s(ctx context.Context, %s %s) (*contracts.Read%sDTO, error) {\n", model.Name, methodName, f.NameLower, argType, model.Name)
		fmt.Fprintf(b, "\titems, _, err := s.store.List(ctx, contracts.Query%sDTO{Where: map[string]interface{}{%q: %s}})\n", model.Name, f.NameLower, f.NameLower)
		b.WriteString("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
		b.WriteString("\tif len(items) == 0 {\n\t\treturn nil, nil\n\t}\n\treturn &items[0], nil\n}\n\n")
	}
}

// detectWorkflowField returns the enum field that looks like a status/
// state machine driver: an enum-kind field named "status" or "state".
// The Analyzer does not flag this itself (spec.md names it only as an
// optional service capability), so the Service Emitter detects it
// directly from the IR by name convention.
func detectWorkflowField(model *ir.ParsedModel) *ir.ParsedField {
	for i := range model.Fields {
		f := &model.Fields[i]
		if f.Kind != ir.KindEnum {
			continue
		}
		if f.NameLower == "status" || f.NameLower == "state" {
			return f
		}
	}
	return nil
}

func renderTransition(b *strings.Builder, model *ir.ParsedModel, idType string, statusField *ir.ParsedField) {
	fmt.Fprintf(b, "// %sTransitionHooks holds the named side-effect functions called on a\n", model.Name)
	b.WriteString("// successful state transition. Each hook is a pure function injected at\n")
	b.WriteString("// construction; the service only wires the call site.\n")
	fmt.Fprintf(b, "type %sTransitionHooks struct {\n", model.Name)
	fmt.Fprintf(b, "\tOnEnter map[%s]func(ctx context.Context, id %s, payload interface{}) error\n", statusField.Type, idType)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// allowed%sTransitions maps a current state to the states it may move to.\n", model.Name)
	b.WriteString("// It is generated empty; no config setting fills it.\n")
	fmt.Fprintf(b, "var allowed%sTransitions = map[%s][]%s{\n", model.Name, statusField.Type, statusField.Type)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// Transition checks that moving %s id's %s from its current value to\n", model.Name, statusField.Name)
	b.WriteString("// toState is listed in the transition table, then invokes the matching\n")
	b.WriteString("// OnEnter hook. It does not write toState to the store and returns an\n")
	b.WriteString("// empty Read DTO.\n")
	fmt.Fprintf(b, "func (s *%sService) Transition(ctx context.Context, id %s, toState %s, payload interface{}, hooks %sTransitionHooks) (contracts.Read%sDTO, error) {\n",
		model.Name, idType, statusField.Type, model.Name, model.Name)
	fmt.Fprintf(b, "\tcurrent, err := s.store.Get(ctx, id)\n\tif err != nil {\n\t\treturn contracts.Read%sDTO{}, err\n\t}\n", model.Name)
	from := "current." + exportedFieldName(statusField.Name)
	if statusField.IsNullable() {
		fmt.Fprintf(b, "\tif %s == nil {\n\t\treturn contracts.Read%sDTO{}, fmt.Errorf(\"%s has no current %s\")\n\t}\n", from, model.Name, model.NameLower, statusField.Name)
		from = "*" + from
	}
	fmt.Fprintf(b, "\tlegal := false\n\tfor _, next := range allowed%sTransitions[%s] {\n\t\tif next == toState {\n\t\t\tlegal = true\n\t\t\tbreak\n\t\t}\n\t}\n", model.Name, from)
	fmt.Fprintf(b, "\tif !legal {\n\t\treturn contracts.Read%sDTO{}, fmt.Errorf(\"illegal transition to %%v\", toState)\n\t}\n", model.Name)
	fmt.Fprintf(b, "\tif hook, ok := hooks.OnEnter[toState]; ok {\n\t\tif err := hook(ctx, id, payload); err != nil {\n\t\t\treturn contracts.Read%sDTO{}, err\n\t\t}\n\t}\n", model.Name)
	fmt.Fprintf(b, "\treturn contracts.Read%sDTO{}, nil\n}\n\n", model.Name)
}

func exportedFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
