package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/framework"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

func buildModel(t *testing.T) (*ir.ParsedSchema, *ir.ParsedModel) {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Post",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func TestEmit_RendersFiveHandlersForMiddlewareChain(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.MiddlewareChainAdapter{})
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	for _, handler := range []string{"List", "Get", "Create", "Update", "Remove"} {
		require.Contains(t, src, "func (h *PostHandler) "+handler)
	}
	require.Contains(t, src, "chi.URLParam")
}

func TestEmit_PluginRegisterDialectRendersHttpkit(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.PluginRegisterAdapter{})
	files, _ := e.Emit(model, analysis, &cfg)
	require.Contains(t, files[0].Contents, "httpkit.Handler")
}

func TestEmit_ControllerNeverReferencesBothDialectsAtOnce(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.MiddlewareChainAdapter{})
	files, _ := e.Emit(model, analysis, &cfg)
	require.NotContains(t, files[0].Contents, "httpkit")
}

func TestEmit_JunctionModelOmitsWriteHandlersMiddlewareChain(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	analysis.Capabilities.IsJunction = true
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.MiddlewareChainAdapter{})
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	src := files[0].Contents
	for _, handler := range []string{"List", "Get"} {
		require.Contains(t, src, "func (h *PostHandler) "+handler)
	}
	for _, handler := range []string{"Create", "Update", "Remove"} {
		require.NotContains(t, src, "func (h *PostHandler) "+handler)
	}
}

func TestEmit_JunctionModelOmitsWriteHandlersPluginRegister(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	analysis.Capabilities.IsJunction = true
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), framework.PluginRegisterAdapter{})
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	src := files[0].Contents
	require.Contains(t, src, "func ListPost(")
	require.Contains(t, src, "func GetPost(")
	require.NotContains(t, src, "func CreatePost(")
	require.NotContains(t, src, "func UpdatePost(")
	require.NotContains(t, src, "func RemovePost(")
}
