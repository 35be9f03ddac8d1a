package dto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
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
			{Name: "title", Type: "String", Kind: "scalar", IsRequired: true},
			{Name: "views", Type: "Int", Kind: "scalar", IsRequired: false},
			{Name: "updatedAt", Type: "DateTime", Kind: "scalar", IsRequired: true, IsUpdatedAt: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func TestEmit_ProducesFourDTOs(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, ok := cache.Lookup(model.Name)
	require.True(t, ok)

	cfg := genconfig.Default()
	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	require.Contains(t, src, "github.com/schemagen/schemagen/gen/validators")
	require.Contains(t, src, "type CreatePostDTO = validators.CreatePostRequest")
	require.Contains(t, src, "type UpdatePostDTO = validators.UpdatePostRequest")
	require.Contains(t, src, "type QueryPostDTO struct")
	require.Contains(t, src, "type ReadPostDTO struct")
	require.Contains(t, src, "\"time\"")
}

func TestEmit_UnknownScalarIsError(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Widget",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "payload", Type: "Geometry", Kind: "scalar", IsRequired: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	model := &schema.Models[0]

	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysis, &cfg)
	require.Nil(t, files)
	require.Len(t, diags, 1)
	require.Equal(t, ir.SeverityError, diags[0].Severity)
}
