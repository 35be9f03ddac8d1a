package validatorschema

import (
	"strings"
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
		Name: "User",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "email", Type: "String", Kind: "scalar", IsRequired: true, IsUnique: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func TestEmit_RendersRequiredAndOptionalTags(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), false)
	files, diags := e.Emit(model, analysis, &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	require.Contains(t, src, "package validators")
	require.Contains(t, src, "type CreateUserRequest struct")
	require.Contains(t, src, `validate:"required"`)
}

func TestEmit_SlugFormatHintAddsEmailConstraint(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), true)
	files, _ := e.Emit(model, analysis, &cfg)
	require.Contains(t, files[0].Contents, "email")
	require.Contains(t, files[0].Contents, `validate:"required,email"`)
}

func TestEmit_CreateRequestExcludesDbManagedTimestamp(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Post",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "updatedAt", Type: "DateTime", Kind: "scalar", IsRequired: true, IsUpdatedAt: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	model := &schema.Models[0]
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""), false)
	files, _ := e.Emit(model, analysis, &cfg)

	createStart := strings.Index(files[0].Contents, "type CreatePostRequest struct")
	createEnd := strings.Index(files[0].Contents[createStart:], "\n}\n")
	createSection := files[0].Contents[createStart : createStart+createEnd]
	require.NotContains(t, createSection, "UpdatedAt")
}

func TestEmit_QueryValidatorBoundsTakeToConfiguredMax(t *testing.T) {
	schema, model := buildModel(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	cfg := genconfig.Default()
	cfg.MaxTake = 25

	e := New(layout.New("", false, ""), false)
	files, _ := e.Emit(model, analysis, &cfg)
	require.Contains(t, files[0].Contents, "lte=25")
}
