package sdk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

func buildModel(t *testing.T) (*ir.ParsedSchema, *ir.ParsedModel) {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Invoice",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
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

func TestClientEmit_RendersFiveMethods(t *testing.T) {
	schema, model := buildModel(t)
	cfg := genconfig.Default()

	e := NewClient(layout.New("", false, ""), pluralize.New(nil))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	require.Contains(t, src, "type InvoiceClient struct")
	require.Contains(t, src, "/invoices")
	for _, m := range []string{"List", "Get", "Create", "Update", "Remove"} {
		require.Contains(t, src, "func (c *InvoiceClient) "+m)
	}
}

func TestClientEmit_NoIDFieldIsError(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name:   "Orphan",
		Fields: []ir.RawField{{Name: "name", Type: "String", Kind: "scalar", IsRequired: true}},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	model := &schema.Models[0]
	cfg := genconfig.Default()

	e := NewClient(layout.New("", false, ""), pluralize.New(nil))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Nil(t, files)
	require.Len(t, diags, 1)
	require.Equal(t, ir.SeverityError, diags[0].Severity)
}

func TestClientEmit_PathMatchesRouteBasePath(t *testing.T) {
	schema, model := buildModel(t)
	cfg := genconfig.Default()
	p := pluralize.New(nil)

	e := NewClient(layout.New("", false, ""), p)
	files, _ := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Contains(t, files[0].Contents, "/invoices")
}

func TestClientEmit_JunctionModelIsReadOnly(t *testing.T) {
	schema, model := buildModel(t)
	cfg := genconfig.Default()
	analysis := analysisFor(schema, model)
	analysis.Capabilities.IsJunction = true

	e := NewClient(layout.New("", false, ""), pluralize.New(nil))
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)

	src := files[0].Contents
	for _, m := range []string{"List", "Get"} {
		require.Contains(t, src, "func (c *InvoiceClient) "+m)
	}
	for _, m := range []string{"Create", "Update", "Remove"} {
		require.NotContains(t, src, "func (c *InvoiceClient) "+m)
	}
}
