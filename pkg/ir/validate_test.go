package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildUserPostSchema(t *testing.T) *ParsedSchema {
	t.Helper()
	raw := RawSchema{
		Models: []RawModel{
			{
				Name: "User",
				Fields: []RawField{
					{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true, HasDefaultValue: true, Default: "uuid()"},
					{Name: "email", Type: "String", Kind: "scalar", IsRequired: true, IsUnique: true},
					{Name: "posts", Type: "Post", Kind: "object", IsList: true, RelationName: "UserPosts"},
				},
			},
			{
				Name: "Post",
				Fields: []RawField{
					{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true, HasDefaultValue: true, Default: "uuid()"},
					{Name: "slug", Type: "String", Kind: "scalar", IsRequired: true, IsUnique: true},
					{Name: "authorId", Type: "String", Kind: "scalar", IsRequired: true},
					{
						Name: "author", Type: "User", Kind: "object", IsRequired: true,
						RelationName: "UserPosts", RelationFromFields: []string{"authorId"}, RelationToFields: []string{"id"},
					},
					{Name: "createdAt", Type: "DateTime", Kind: "scalar", HasDefaultValue: true, Default: "now()"},
				},
			},
		},
	}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)
	return schema
}

func TestValidate_CleanSchemaHasNoErrors(t *testing.T) {
	schema := buildUserPostSchema(t)
	diags, err := Validate(schema, ValidateOptions{ThrowOnError: true})
	require.NoError(t, err)
	require.Empty(t, diags.Errors)
}

func TestValidate_MissingPrimaryKey(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{Name: "Orphan", Fields: []RawField{
		{Name: "name", Type: "String", Kind: "scalar", IsRequired: true},
	}}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	diags, err := Validate(schema, ValidateOptions{})
	require.NoError(t, err)
	require.Len(t, diags.Errors, 1)
	require.Equal(t, "primary-key-required", diags.Errors[0].Rule)
}

func TestValidate_ThrowOnErrorReturnsInvalidSchema(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{Name: "Orphan", Fields: []RawField{
		{Name: "name", Type: "String", Kind: "scalar", IsRequired: true},
	}}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	_, err = Validate(schema, ValidateOptions{ThrowOnError: true})
	require.Error(t, err)
	var invalid *InvalidSchema
	require.ErrorAs(t, err, &invalid)
}

func TestValidate_ImpossibleSelfRelationIsFatal(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{
		Name: "Category",
		Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{
				Name: "parent", Type: "Category", Kind: "object", IsRequired: true,
				RelationFromFields: []string{"parentId"}, RelationToFields: []string{"id"},
			},
			{Name: "parentId", Type: "String", Kind: "scalar", IsRequired: true},
		},
	}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	diags, _ := Validate(schema, ValidateOptions{})
	require.True(t, diags.HasFatal())
}

func TestValidate_OptionalSelfRelationAllowed(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{
		Name: "Category",
		Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{
				Name: "parent", Type: "Category", Kind: "object", IsRequired: false,
				RelationFromFields: []string{"parentId"}, RelationToFields: []string{"id"},
			},
			{Name: "parentId", Type: "String", Kind: "scalar", IsRequired: false},
		},
	}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	diags, err := Validate(schema, ValidateOptions{ThrowOnError: true})
	require.NoError(t, err)
	require.Empty(t, diags.Errors)
}

func TestValidate_RequiredCycleIsError(t *testing.T) {
	raw := RawSchema{Models: []RawModel{
		{Name: "A", Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "bId", Type: "String", Kind: "scalar", IsRequired: true},
			{Name: "b", Type: "B", Kind: "object", IsRequired: true, RelationFromFields: []string{"bId"}, RelationToFields: []string{"id"}},
		}},
		{Name: "B", Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "aId", Type: "String", Kind: "scalar", IsRequired: true},
			{Name: "a", Type: "A", Kind: "object", IsRequired: true, RelationFromFields: []string{"aId"}, RelationToFields: []string{"id"}},
		}},
	}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	diags, _ := Validate(schema, ValidateOptions{})
	found := false
	for _, d := range diags.Errors {
		if d.Rule == "relation-cycle" {
			found = true
		}
	}
	require.True(t, found)
}

func TestValidate_UnresolvedEnumIsWarn(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{
		Name: "Post",
		Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "status", Type: "PostStatus", Kind: "enum", IsRequired: true},
		},
	}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	diags, _ := Validate(schema, ValidateOptions{})
	require.Len(t, diags.Warnings, 1)
	require.Equal(t, "unresolved-enum-reference", diags.Warnings[0].Rule)
}

func TestCreateUpdateFieldsInvariants(t *testing.T) {
	schema := buildUserPostSchema(t)
	post := schema.ModelMap["Post"]

	// createdAt carries a client-managed now() default (hasDefaultValue ∧
	// ¬hasDbDefault): spec.md §8 requires it stay in CreateDTO, optional.
	foundCreatedAt := false
	for _, f := range post.CreateFields() {
		if f.Name == "createdAt" {
			foundCreatedAt = true
		}
	}
	require.True(t, foundCreatedAt, "client-managed now() default must remain in CreateDTO")

	for _, f := range post.UpdateFields() {
		require.False(t, f.IsID, "id field must be excluded from UpdateDTO")
	}
}

func TestCreateFields_ExcludesDbManagedTimestamp(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{
		Name: "Post",
		Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "createdAt", Type: "DateTime", Kind: "scalar", HasDefaultValue: true, Default: map[string]interface{}{"name": "now"}},
			{Name: "updatedAt", Type: "DateTime", Kind: "scalar", IsUpdatedAt: true},
		},
	}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)
	post := schema.ModelMap["Post"]

	for _, f := range post.CreateFields() {
		require.NotEqual(t, "updatedAt", f.Name, "isUpdatedAt fields are always excluded from CreateDTO")
	}
}
