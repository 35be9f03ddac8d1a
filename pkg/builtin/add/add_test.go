package add

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/plugin"
)

func TestGenerate_WritesConfiguredPathAndContent(t *testing.T) {
	p := New()
	rc := plugin.RequestContext{Config: map[string]interface{}{
		"path":    "gen/extra/header.go",
		"content": "// custom header",
	}}

	out, err := p.Generate(context.Background(), rc)
	require.NoError(t, err)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "gen/extra/header.go", out.Files[0].Path)
	assert.Equal(t, "// custom header\n", out.Files[0].Contents)
	assert.True(t, out.Files[0].Overridable)
}

func TestGenerate_ReplacePlacementIsNotOverridable(t *testing.T) {
	p := New()
	rc := plugin.RequestContext{Config: map[string]interface{}{
		"path":      "gen/extra/fixed.go",
		"content":   "package extra",
		"placement": "replace",
	}}

	out, err := p.Generate(context.Background(), rc)
	require.NoError(t, err)
	assert.False(t, out.Files[0].Overridable)
}

func TestGenerate_MissingPathErrors(t *testing.T) {
	p := New()
	_, err := p.Generate(context.Background(), plugin.RequestContext{Config: map[string]interface{}{"content": "x"}})
	assert.Error(t, err)
}

func TestValidate_MissingPathProducesErrorDiagnostic(t *testing.T) {
	p := New()
	result, err := p.Validate(context.Background(), plugin.RequestContext{Config: map[string]interface{}{}})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
}
