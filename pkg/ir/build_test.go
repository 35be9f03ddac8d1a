package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_FlagsSelfRelationFields(t *testing.T) {
	raw := RawSchema{Models: []RawModel{{
		Name: "Category",
		Fields: []RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "parent", Type: "Category", Kind: "object", RelationName: "CategoryTree", RelationFromFields: []string{"parentId"}, RelationToFields: []string{"id"}},
			{Name: "children", Type: "Category", Kind: "object", IsList: true, RelationName: "CategoryTree"},
			{Name: "parentId", Type: "String", Kind: "scalar"},
		},
	}}}
	schema, err := Build(raw, NewBuildOptions())
	require.NoError(t, err)

	model := &schema.Models[0]
	parent, ok := model.FieldByNameLower("parent")
	require.True(t, ok)
	require.True(t, parent.IsSelfRelation)

	children, ok := model.FieldByNameLower("children")
	require.True(t, ok)
	require.True(t, children.IsSelfRelation)

	id, ok := model.FieldByNameLower("id")
	require.True(t, ok)
	require.False(t, id.IsSelfRelation)
}

func TestBuild_NonSelfRelationFieldIsNotFlagged(t *testing.T) {
	schema := buildUserPostSchema(t)
	post := schema.ModelMap["Post"]
	author, ok := post.FieldByNameLower("author")
	require.True(t, ok)
	require.False(t, author.IsSelfRelation)
}
