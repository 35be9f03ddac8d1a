// Package test implements the per-model integration Test Emitter
// (spec.md §4.5.9): one `_test.go` file per model exercising the
// generated service's CRUD surface against a fake in-memory store, with
// cleanup between tests injected through a DB-provider-agnostic seam so
// the core never embeds provider SQL. Grounded on the teacher's
// testify-based table tests (pkg/config/config_test.go,
// pkg/schema/merger_test.go).
package test

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

// Emitter renders the integration test file for one model.
type Emitter struct {
	Layout *layout.Layout
}

// New returns a test Emitter.
func New(l *layout.Layout) *Emitter {
	return &Emitter{Layout: l}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	if model.IDField == nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: "model has no id field; test emitter requires one"}}
	}
	idType, err := gotype.Resolve(model.Name, model.IDField)
	if err != nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()}}
	}
	idType = strings.TrimPrefix(idType, "*")

	// All per-model test files land in the flat tests/ directory (layout's
	// KindTest path), so they must share one package rather than each
	// declaring its own.
	var b strings.Builder
	b.WriteString("package tests\n\n")
	b.WriteString("import (\n\t\"context\"\n\t\"fmt\"\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/require\"\n\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/contracts\"\n")
	fmt.Fprintf(&b, "\t\"github.com/schemagen/schemagen/gen/services\"\n)\n\n")

	fmt.Fprintf(&b, "// cleanup%s is the DB-provider-agnostic seam: the concrete store\n", model.Name)
	b.WriteString("// implementation injects its own truncate/reset strategy here; the test\n")
	b.WriteString("// itself never embeds provider SQL.\n")
	fmt.Fprintf(&b, "var cleanup%s func(ctx context.Context) error\n\n", model.Name)

	fmt.Fprintf(&b, "func new%sStoreForTest(t *testing.T) services.%sStore {\n", model.Name, model.Name)
	fmt.Fprintf(&b, "\tt.Helper()\n\tstore := newFake%sStore()\n", model.Name)
	fmt.Fprintf(&b, "\tif cleanup%s != nil {\n\t\tt.Cleanup(func() {\n\t\t\t_ = cleanup%s(context.Background())\n\t\t})\n\t}\n", model.Name, model.Name)
	b.WriteString("\treturn store\n}\n\n")

	fmt.Fprintf(&b, "func Test%s_CreateThenGet(t *testing.T) {\n", model.Name)
	fmt.Fprintf(&b, "\tsvc := services.New%sService(new%sStoreForTest(t))\n", model.Name, model.Name)
	fmt.Fprintf(&b, "\tcreated, err := svc.Create(context.Background(), contracts.Create%sDTO{})\n", model.Name)
	b.WriteString("\trequire.NoError(t, err)\n\n")
	fmt.Fprintf(&b, "\tfetched, err := svc.Get(context.Background(), created.%s)\n", idFieldGoName(model))
	b.WriteString("\trequire.NoError(t, err)\n\trequire.Equal(t, created, *fetched)\n}\n\n")

	fmt.Fprintf(&b, "func Test%s_UpdateAppliesPartialChanges(t *testing.T) {\n", model.Name)
	fmt.Fprintf(&b, "\tsvc := services.New%sService(new%sStoreForTest(t))\n", model.Name, model.Name)
	fmt.Fprintf(&b, "\tcreated, err := svc.Create(context.Background(), contracts.Create%sDTO{})\n", model.Name)
	b.WriteString("\trequire.NoError(t, err)\n\n")
	fmt.Fprintf(&b, "\t_, err = svc.Update(context.Background(), created.%s, contracts.Update%sDTO{})\n", idFieldGoName(model), model.Name)
	b.WriteString("\trequire.NoError(t, err)\n}\n\n")

	fmt.Fprintf(&b, "func Test%s_ListReturnsCreatedRecord(t *testing.T) {\n", model.Name)
	fmt.Fprintf(&b, "\tsvc := services.New%sService(new%sStoreForTest(t))\n", model.Name, model.Name)
	fmt.Fprintf(&b, "\t_, err := svc.Create(context.Background(), contracts.Create%sDTO{})\n", model.Name)
	b.WriteString("\trequire.NoError(t, err)\n\n")
	fmt.Fprintf(&b, "\tpage, err := svc.List(context.Background(), contracts.Query%sDTO{}, false)\n", model.Name)
	b.WriteString("\trequire.NoError(t, err)\n\trequire.NotEmpty(t, page.Items)\n}\n\n")

	fmt.Fprintf(&b, "func Test%s_RemoveDeletesRecord(t *testing.T) {\n", model.Name)
	fmt.Fprintf(&b, "\tsvc := services.New%sService(new%sStoreForTest(t))\n", model.Name, model.Name)
	fmt.Fprintf(&b, "\tcreated, err := svc.Create(context.Background(), contracts.Create%sDTO{})\n", model.Name)
	b.WriteString("\trequire.NoError(t, err)\n\n")
	fmt.Fprintf(&b, "\tok, err := svc.Remove(context.Background(), created.%s)\n", idFieldGoName(model))
	b.WriteString("\trequire.NoError(t, err)\n\trequire.True(t, ok)\n\n")
	fmt.Fprintf(&b, "\t_, err = svc.Get(context.Background(), created.%s)\n", idFieldGoName(model))
	b.WriteString("\trequire.Error(t, err)\n}\n\n")

	fmt.Fprintf(&b, "type fake%sStore struct {\n\tbyID map[%s]contracts.Read%sDTO\n\tnextID int\n}\n\n", model.Name, idType, model.Name)
	fmt.Fprintf(&b, "func newFake%sStore() *fake%sStore {\n\treturn &fake%sStore{byID: map[%s]contracts.Read%sDTO{}}\n}\n\n", model.Name, model.Name, model.Name, idType, model.Name)

	renderFakeStoreMethods(&b, model, idType)

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindTest, model.NameLower),
		Contents: b.String(),
		Category: "test",
	}
	return []filemap.GeneratedFile{file}, nil
}

func idFieldGoName(model *ir.ParsedModel) string {
	name := model.IDField.Name
	if name == "" {
		return "ID"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// renderFakeStoreMethods renders the five {Model}Store interface methods
// on fake{Model}Store. The nextID counter is converted to idType at the
// call site since a fake store has no real sequence/UUID generator to
// delegate to.
func renderFakeStoreMethods(b *strings.Builder, model *ir.ParsedModel, idType string) {
	newID := fmt.Sprintf("%s(s.nextID)", idType)
	if idType == "string" {
		newID = `fmt.Sprintf("%d", s.nextID)`
	}

	fmt.Fprintf(b, "func (s *fake%sStore) List(ctx context.Context, q contracts.Query%sDTO) ([]contracts.Read%sDTO, int, error) {\n", model.Name, model.Name, model.Name)
	fmt.Fprintf(b, "\titems := make([]contracts.Read%sDTO, 0, len(s.byID))\n", model.Name)
	b.WriteString("\tfor _, v := range s.byID {\n\t\titems = append(items, v)\n\t}\n")
	b.WriteString("\treturn items, len(items), nil\n}\n\n")

	fmt.Fprintf(b, "func (s *fake%sStore) Get(ctx context.Context, id %s) (*contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name)
	b.WriteString("\tv, ok := s.byID[id]\n\tif !ok {\n")
	fmt.Fprintf(b, "\t\treturn nil, fmt.Errorf(\"%s %%v not found\", id)\n\t}\n", model.Name)
	b.WriteString("\treturn &v, nil\n}\n\n")

	fmt.Fprintf(b, "func (s *fake%sStore) Create(ctx context.Context, in contracts.Create%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, model.Name, model.Name)
	b.WriteString("\ts.nextID++\n")
	fmt.Fprintf(b, "\tid := %s\n", newID)
	fmt.Fprintf(b, "\tv := contracts.Read%sDTO{%s: id}\n", model.Name, idFieldGoName(model))
	b.WriteString("\ts.byID[id] = v\n\treturn v, nil\n}\n\n")

	fmt.Fprintf(b, "func (s *fake%sStore) Update(ctx context.Context, id %s, in contracts.Update%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name, model.Name)
	b.WriteString("\tv, ok := s.byID[id]\n\tif !ok {\n")
	fmt.Fprintf(b, "\t\treturn contracts.Read%sDTO{}, fmt.Errorf(\"%s %%v not found\", id)\n\t}\n", model.Name, model.Name)
	b.WriteString("\ts.byID[id] = v\n\treturn v, nil\n}\n\n")

	fmt.Fprintf(b, "func (s *fake%sStore) Remove(ctx context.Context, id %s) (bool, error) {\n", model.Name, idType)
	b.WriteString("\tif _, ok := s.byID[id]; !ok {\n\t\treturn false, nil\n\t}\n")
	b.WriteString("\tdelete(s.byID, id)\n\treturn true, nil\n}\n")
}
