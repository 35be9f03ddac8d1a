package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

func buildSchema(t *testing.T, idType string) (*ir.ParsedSchema, *ir.ParsedModel) {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Invoice",
		Fields: []ir.RawField{
			{Name: "id", Type: idType, Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "total", Type: "Int", Kind: "scalar", IsRequired: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func analysisFor(schema *ir.ParsedSchema, model *ir.ParsedModel) analyzer.ModelAnalysis {
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	return analysis
}

func TestEmit_RendersCRUDTestsAndFakeStore(t *testing.T) {
	schema, model := buildSchema(t, "String")
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	require.Contains(t, src, "package tests\n")
	require.Contains(t, src, "func TestInvoice_CreateThenGet(t *testing.T)")
	require.Contains(t, src, "func TestInvoice_UpdateAppliesPartialChanges(t *testing.T)")
	require.Contains(t, src, "func TestInvoice_ListReturnsCreatedRecord(t *testing.T)")
	require.Contains(t, src, "func TestInvoice_RemoveDeletesRecord(t *testing.T)")
	require.Contains(t, src, "var cleanupInvoice func(ctx context.Context) error")

	require.Contains(t, src, "func (s *fakeInvoiceStore) List(")
	require.Contains(t, src, "func (s *fakeInvoiceStore) Get(")
	require.Contains(t, src, "func (s *fakeInvoiceStore) Create(")
	require.Contains(t, src, "func (s *fakeInvoiceStore) Update(")
	require.Contains(t, src, "func (s *fakeInvoiceStore) Remove(")
}

func TestEmit_StringIDUsesSprintfNotTypeConversion(t *testing.T) {
	schema, model := buildSchema(t, "String")
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, _ := e.Emit(model, analysisFor(schema, model), &cfg)

	src := files[0].Contents
	require.Contains(t, src, `fmt.Sprintf("%d", s.nextID)`)
	require.NotContains(t, src, "string(s.nextID)")
}

func TestEmit_IntIDUsesTypeConversion(t *testing.T) {
	schema, model := buildSchema(t, "Int")
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, _ := e.Emit(model, analysisFor(schema, model), &cfg)

	src := files[0].Contents
	require.Contains(t, src, "id := int64(s.nextID)")
}

func TestEmit_NoIDFieldIsError(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name:   "Orphan",
		Fields: []ir.RawField{{Name: "name", Type: "String", Kind: "scalar", IsRequired: true}},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	model := &schema.Models[0]
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Nil(t, files)
	require.Len(t, diags, 1)
	require.Equal(t, ir.SeverityError, diags[0].Severity)
}
