package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

func TestGenerate_NoRealtimeModelsYieldsNoFiles(t *testing.T) {
	p := New()
	schema := &ir.ParsedSchema{Models: []ir.ParsedModel{{Name: "Post"}}}
	out, err := p.Generate(context.Background(), plugin.RequestContext{Schema: schema})
	require.NoError(t, err)
	assert.Empty(t, out.Files)
	assert.Empty(t, out.Routes)
}

func TestGenerate_RealtimeModelEmitsHubAndChannels(t *testing.T) {
	p := New()
	schema := &ir.ParsedSchema{Models: []ir.ParsedModel{
		{Name: "Order", RealtimeBroadcast: []string{"order.updated"}},
	}}
	out, err := p.Generate(context.Background(), plugin.RequestContext{Schema: schema})
	require.NoError(t, err)
	require.Len(t, out.Files, 2)
	require.Len(t, out.Routes, 1)
	assert.Equal(t, "/realtime", out.Routes[0].Path)
	assert.Contains(t, out.Files[1].Contents, `"order.updated": true`)
}

func TestHealthCheck_ReportsIdleWithNoChannels(t *testing.T) {
	p := New()
	schema := &ir.ParsedSchema{Models: []ir.ParsedModel{{Name: "Post"}}}
	section, ok := p.HealthCheck(context.Background(), plugin.RequestContext{Schema: schema})
	assert.True(t, ok)
	assert.Equal(t, "idle", section.Status)
}
