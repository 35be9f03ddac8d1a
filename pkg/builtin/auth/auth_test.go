package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

func userSchema(fields ...ir.ParsedField) *ir.ParsedSchema {
	user := &ir.ParsedModel{Name: "User", NameLower: "user", Fields: fields}
	return &ir.ParsedSchema{
		Models:   []ir.ParsedModel{*user},
		ModelMap: map[string]*ir.ParsedModel{"User": user},
	}
}

func TestValidate_MissingUserModelIsError(t *testing.T) {
	p := New()
	schema := &ir.ParsedSchema{ModelMap: map[string]*ir.ParsedModel{}}
	result, err := p.Validate(context.Background(), plugin.RequestContext{Schema: schema})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, ir.SeverityError, result.Diagnostics[0].Severity)
}

func TestValidate_MissingEmailAndPasswordFieldsAreErrors(t *testing.T) {
	p := New()
	schema := userSchema(ir.ParsedField{Name: "id", NameLower: "id", Kind: ir.KindScalar, IsID: true})
	result, err := p.Validate(context.Background(), plugin.RequestContext{Schema: schema})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 2)
}

func TestValidate_WellShapedUserModelPasses(t *testing.T) {
	p := New()
	schema := userSchema(
		ir.ParsedField{Name: "id", NameLower: "id", Kind: ir.KindScalar, IsID: true},
		ir.ParsedField{Name: "email", NameLower: "email", Kind: ir.KindScalar},
		ir.ParsedField{Name: "passwordHash", NameLower: "passwordhash", Kind: ir.KindScalar},
	)
	result, err := p.Validate(context.Background(), plugin.RequestContext{Schema: schema})
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestGenerate_EmitsFilesRoutesAndEnvVar(t *testing.T) {
	p := New()
	schema := userSchema()
	out, err := p.Generate(context.Background(), plugin.RequestContext{Schema: schema, Config: nil})
	require.NoError(t, err)
	require.Len(t, out.Files, 3)
	require.Len(t, out.Routes, 2)
	require.Len(t, out.Middleware, 1)
	assert.Contains(t, out.EnvVars, "JWT_SECRET")
	assert.True(t, strings.Contains(out.Files[0].Contents, "golang-jwt/jwt/v5"))
}

func TestGenerate_RespectsConfiguredEnvVarName(t *testing.T) {
	p := New()
	schema := userSchema()
	out, err := p.Generate(context.Background(), plugin.RequestContext{
		Schema: schema,
		Config: map[string]interface{}{"jwtSecretEnv": "CUSTOM_SECRET"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.EnvVars, "CUSTOM_SECRET")
}
