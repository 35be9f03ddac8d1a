package sdk

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/gotype"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

// CoreQueryEmitter renders framework-agnostic query descriptors per
// model: a stable cache key plus an executor closure over the model's
// SDK client, so a hook layer (pkg/emit/hooks) can subscribe each key to
// realtime invalidation without depending on any particular UI
// framework. Grounded on the teacher's document-operation modules, one
// per GraphQL operation; generalized here to one descriptor per model
// for each of its list and get operations.
type CoreQueryEmitter struct {
	Layout     *layout.Layout
	Pluralizer *pluralize.Pluralizer
}

// NewCoreQuery returns a CoreQueryEmitter.
func NewCoreQuery(l *layout.Layout, pluralizer *pluralize.Pluralizer) *CoreQueryEmitter {
	return &CoreQueryEmitter{Layout: l, Pluralizer: pluralizer}
}

// Emit implements phase.ModelEmitFunc.
func (e *CoreQueryEmitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	if model.IDField == nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: "model has no id field; core query emitter requires one"}}
	}
	idType, err := gotype.Resolve(model.Name, model.IDField)
	if err != nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()}}
	}
	idType = strings.TrimPrefix(idType, "*")
	resource := strings.ToLower(e.Pluralizer.Plural(model.Name))

	var b strings.Builder
	b.WriteString("package sdk\n\n")
	b.WriteString("import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"fmt\"\n\n\t\"github.com/schemagen/schemagen/gen/contracts\"\n)\n\n")

	fmt.Fprintf(&b, "// stableKey builds the deterministic cache key for a %s query: the\n", resource)
	b.WriteString("// resource name, suffixed with a canonical JSON encoding of params so that\n")
	b.WriteString("// logically identical parameters always collide and distinct filters never\n")
	b.WriteString("// do. encoding/json sorts map keys and dereferences pointer fields to their\n")
	b.WriteString("// pointed-to value, so two Skip/Take pairs with the same values but\n")
	b.WriteString("// different allocations produce the same key.\n")
	fmt.Fprintf(&b, "func %sStableKey(baseKey string, params interface{}) string {\n", model.Name)
	b.WriteString("\tif params == nil {\n\t\treturn baseKey\n\t}\n")
	b.WriteString("\tcanon, err := json.Marshal(params)\n\tif err != nil {\n\t\treturn fmt.Sprintf(\"%s:%v\", baseKey, params)\n\t}\n")
	b.WriteString("\treturn baseKey + \":\" + string(canon)\n}\n\n")

	fmt.Fprintf(&b, "// %sListQuery is the stable-key descriptor for the list operation.\n", model.Name)
	fmt.Fprintf(&b, "type %sListQuery struct {\n\tClient *%sClient\n\tParams contracts.Query%sDTO\n}\n\n", model.Name, model.Name, model.Name)
	fmt.Fprintf(&b, "func (q %sListQuery) Key() string {\n\treturn %sStableKey(%q, q.Params)\n}\n\n", model.Name, model.Name, resource)
	fmt.Fprintf(&b, "func (q %sListQuery) Execute(ctx context.Context) ([]contracts.Read%sDTO, error) {\n\treturn q.Client.List(ctx, q.Params)\n}\n\n", model.Name, model.Name)

	fmt.Fprintf(&b, "// %sGetQuery is the stable-key descriptor for the single-record operation.\n", model.Name)
	fmt.Fprintf(&b, "type %sGetQuery struct {\n\tClient *%sClient\n\tID %s\n}\n\n", model.Name, model.Name, idType)
	fmt.Fprintf(&b, "func (q %sGetQuery) Key() string {\n\treturn %sStableKey(%q, q.ID)\n}\n\n", model.Name, model.Name, resource+"/one")
	fmt.Fprintf(&b, "func (q %sGetQuery) Execute(ctx context.Context) (*contracts.Read%sDTO, error) {\n\treturn q.Client.Get(ctx, q.ID)\n}\n", model.Name, model.Name)

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindSDKCoreQuery, model.NameLower),
		Contents: b.String(),
		Category: "sdk-corequery",
	}
	return []filemap.GeneratedFile{file}, nil
}
