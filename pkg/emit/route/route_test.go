package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/framework"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

func buildModel(t *testing.T) (*ir.ParsedSchema, *ir.ParsedModel) {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name:   "Category",
		Fields: []ir.RawField{{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true}},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func TestEmit_RendersPluralizedPaths(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.MiddlewareChainAdapter{}, pluralize.New(nil))
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	require.Contains(t, files[0].Contents, "/categories")
	require.Contains(t, files[0].Contents, "/categories/{id}")
}

func TestBasePath_HonorsOverride(t *testing.T) {
	_, model := buildModel(t)
	p := pluralize.New(map[string]string{"Category": "katz"})
	require.Equal(t, "/katz", BasePath(model, p))
}

func TestEmit_JunctionModelOmitsWriteRoutes(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	analysis.Capabilities.IsJunction = true
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.MiddlewareChainAdapter{}, pluralize.New(nil))
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	require.Contains(t, files[0].Contents, `"GET /categories"`)
	require.Contains(t, files[0].Contents, `"GET /categories/{id}"`)
	require.NotContains(t, files[0].Contents, `"POST /categories"`)
	require.NotContains(t, files[0].Contents, `"PATCH /categories/{id}"`)
	require.NotContains(t, files[0].Contents, `"DELETE /categories/{id}"`)
}
