package hooks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

func buildModel(t *testing.T, realtime []string) (*ir.ParsedSchema, *ir.ParsedModel) {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name:              "Message",
		Fields:            []ir.RawField{{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true}},
		RealtimeBroadcast: realtime,
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema, &schema.Models[0]
}

func analysisFor(schema *ir.ParsedSchema, model *ir.ParsedModel) analyzer.ModelAnalysis {
	cache := analyzer.NewCache()
	cache.Build(schema)
	analysis, _ := cache.Lookup(model.Name)
	return analysis
}

func TestEmit_RealtimeModelGetsHook(t *testing.T) {
	schema, model := buildModel(t, []string{"created", "updated", "deleted"})
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Empty(t, diags)
	require.Len(t, files, 1)

	src := files[0].Contents
	require.Contains(t, src, "type MessageHook struct")
	require.Contains(t, src, `"message:list"`)
	require.Contains(t, src, "func (h *MessageHook) Unsubscribe()")
}

func TestEmit_NonRealtimeModelProducesNoHook(t *testing.T) {
	schema, model := buildModel(t, nil)
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, diags := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Nil(t, files)
	require.Nil(t, diags)
}

func TestEmit_SubscribeGuardsAgainstDoubleSubscription(t *testing.T) {
	schema, model := buildModel(t, []string{"created"})
	cfg := genconfig.Default()

	e := New(layout.New("", false, ""))
	files, _ := e.Emit(model, analysisFor(schema, model), &cfg)
	require.Contains(t, files[0].Contents, "already subscribed")
}
