package analyzer

import (
	"testing"

	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/stretchr/testify/require"
)

// buildEcommerceSchema mirrors spec.md §8 scenario 2: Product, Order,
// OrderItem(junction with {orderId, productId} composite PK).
func buildEcommerceSchema(t *testing.T) *ir.ParsedSchema {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{
		{Name: "Product", Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "name", Type: "String", Kind: "scalar", IsRequired: true},
			{Name: "items", Type: "OrderItem", Kind: "object", IsList: true},
		}},
		{Name: "Order", Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "items", Type: "OrderItem", Kind: "object", IsList: true},
		}},
		{
			Name: "OrderItem",
			PrimaryKey: &ir.PrimaryKey{Fields: []string{"orderId", "productId"}},
			Fields: []ir.RawField{
				{Name: "orderId", Type: "String", Kind: "scalar", IsRequired: true},
				{Name: "productId", Type: "String", Kind: "scalar", IsRequired: true},
				{
					Name: "order", Type: "Order", Kind: "object", IsRequired: true,
					RelationFromFields: []string{"orderId"}, RelationToFields: []string{"id"},
				},
				{
					Name: "product", Type: "Product", Kind: "object", IsRequired: true,
					RelationFromFields: []string{"productId"}, RelationToFields: []string{"id"},
				},
			},
		},
	}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema
}

func TestAnalyze_DetectsJunctionTable(t *testing.T) {
	schema := buildEcommerceSchema(t)
	orderItem := schema.ModelMap["OrderItem"]

	analysis, diags := Analyze(orderItem, schema)
	require.Empty(t, diags)
	require.True(t, analysis.Capabilities.IsJunction)
	require.False(t, analysis.Capabilities.SupportsCRUD)
	require.True(t, analysis.Capabilities.IsReadOnly)
}

func TestAnalyze_UnidirectionalManyToManyFromNonJunctionSide(t *testing.T) {
	schema := buildEcommerceSchema(t)
	product := schema.ModelMap["Product"]

	analysis, _ := Analyze(product, schema)
	require.Len(t, analysis.Relations, 1)
	require.Equal(t, ManyToMany, analysis.Relations[0].Kind)
	require.True(t, analysis.Relations[0].IsJunctionMediated)
}

func TestAnalyze_SpecialFields(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Post",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "slug", Type: "String", Kind: "scalar", IsRequired: true, IsUnique: true},
			{Name: "deletedAt", Type: "DateTime", Kind: "scalar", IsRequired: false},
			{Name: "createdAt", Type: "DateTime", Kind: "scalar", HasDefaultValue: true, Default: "now()"},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)

	analysis, _ := Analyze(schema.ModelMap["Post"], schema)
	require.Equal(t, "slug", analysis.SpecialFields.Slug)
	require.Equal(t, "deletedAt", analysis.SpecialFields.SoftDelete)
	require.True(t, analysis.Capabilities.SupportsSoftDelete)
}

func TestAnalyze_SelfRelation(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Category",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{
				Name: "parent", Type: "Category", Kind: "object", IsRequired: false,
				RelationFromFields: []string{"parentId"}, RelationToFields: []string{"id"},
			},
			{Name: "parentId", Type: "String", Kind: "scalar", IsRequired: false},
			{Name: "children", Type: "Category", Kind: "object", IsList: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)

	analysis, _ := Analyze(schema.ModelMap["Category"], schema)
	require.Len(t, analysis.Relations, 2)
}

func TestCache_BuildOnceThenGet(t *testing.T) {
	schema := buildEcommerceSchema(t)
	cache := NewCache()
	diags := cache.Build(schema)
	require.Empty(t, diags)

	a := cache.Get("Product")
	require.Equal(t, "Product", a.ModelName)

	// rebuilding with the same schema is a no-op (same fingerprint).
	diags2 := cache.Build(schema)
	require.Nil(t, diags2)
}

func TestAnalyze_RealtimeBroadcastSetsCapability(t *testing.T) {
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name:              "Message",
		RealtimeBroadcast: []string{"created", "updated", "deleted"},
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)

	analysis, _ := Analyze(schema.ModelMap["Message"], schema)
	require.True(t, analysis.Capabilities.SupportsRealtime)
}

func TestAnalyze_NoRealtimeDirectiveLeavesCapabilityFalse(t *testing.T) {
	schema := buildEcommerceSchema(t)
	analysis, _ := Analyze(schema.ModelMap["Product"], schema)
	require.False(t, analysis.Capabilities.SupportsRealtime)
}
