package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

func TestGenerate_EmitsCollectorAndMiddlewareWithDefaultNamespace(t *testing.T) {
	p := New()
	out, err := p.Generate(context.Background(), plugin.RequestContext{Schema: &ir.ParsedSchema{}})
	require.NoError(t, err)
	require.Len(t, out.Files, 2)
	require.Len(t, out.Routes, 1)
	assert.Equal(t, "/metrics", out.Routes[0].Path)
	assert.Contains(t, out.Files[0].Contents, `Namespace: "schemagen"`)
}

func TestGenerate_RespectsConfiguredNamespace(t *testing.T) {
	p := New()
	out, err := p.Generate(context.Background(), plugin.RequestContext{
		Schema: &ir.ParsedSchema{},
		Config: map[string]interface{}{"namespace": "billing"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.Files[0].Contents, `Namespace: "billing"`)
}

func TestHealthCheck_AlwaysOK(t *testing.T) {
	p := New()
	section, ok := p.HealthCheck(context.Background(), plugin.RequestContext{})
	assert.True(t, ok)
	assert.Equal(t, "metrics", section.Name)
}
