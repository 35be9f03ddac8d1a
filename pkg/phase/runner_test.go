package phase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

func buildTestSchema(t *testing.T) *ir.ParsedSchema {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Post",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "title", Type: "String", Kind: "scalar", IsRequired: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	schema := buildTestSchema(t)
	cfg := genconfig.Default()
	return New(schema, analyzer.NewCache(), &cfg, plugin.NewRegistry(), "test")
}

func TestRunner_CompletesStandardPipeline(t *testing.T) {
	ctx := newTestContext(t)
	runner := NewRunner(Standard(Dependencies{
		DTO: func(m *ir.ParsedModel, a analyzer.ModelAnalysis, c *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
			return []filemap.GeneratedFile{{Path: "gen/contracts/" + m.NameLower + ".go", Contents: "package contracts\n"}}, nil
		},
	}))

	result, err := runner.Run(context.Background(), ctx)
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.True(t, ctx.Files.Len() >= 1)
	require.NotEmpty(t, ctx.Manifest.SchemaHash)
}

func TestRunner_FatalDiagnosticRollsBackPriorPhases(t *testing.T) {
	ctx := newTestContext(t)

	deps := Dependencies{
		DTO: func(m *ir.ParsedModel, a analyzer.ModelAnalysis, c *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
			return []filemap.GeneratedFile{{Path: "gen/contracts/" + m.NameLower + ".go", Contents: "package contracts\n"}}, nil
		},
		Service: func(m *ir.ParsedModel, a analyzer.ModelAnalysis, c *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
			return nil, []ir.Diagnostic{{Severity: ir.SeverityFatal, ModelName: m.Name, Message: "boom"}}
		},
	}
	runner := NewRunner(Standard(deps))

	result, err := runner.Run(context.Background(), ctx)
	require.Error(t, err)
	require.False(t, result.Completed)
	require.Equal(t, "GenerateServices", result.AbortedPhase)
	require.Equal(t, 0, ctx.Files.Len(), "rollback must clear files added by the earlier GenerateContracts phase")
}

func TestRunner_StrictModeAbortsOnAccumulatedErrors(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Config.Strict = true

	deps := Dependencies{
		DTO: func(m *ir.ParsedModel, a analyzer.ModelAnalysis, c *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
			return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: m.Name, Message: "bad field"}}
		},
	}
	runner := NewRunner(Standard(deps))

	result, err := runner.Run(context.Background(), ctx)
	require.Error(t, err)
	require.False(t, result.Completed)
}

func TestRunner_RegistryModeCollapsesPhases(t *testing.T) {
	ctx := newTestContext(t)
	calls := 0
	deps := Dependencies{
		Registry: func(m *ir.ParsedModel, a analyzer.ModelAnalysis, c *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
			calls++
			return []filemap.GeneratedFile{{Path: "gen/bundle/" + m.NameLower + ".go", Contents: "package bundle\n"}}, nil
		},
	}
	runner := NewRunner(ForMode(true, deps))

	result, err := runner.Run(context.Background(), ctx)
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.Equal(t, 1, calls)
}

func TestRunner_CancellationStopsBeforeNextPhase(t *testing.T) {
	ctx := newTestContext(t)
	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(Standard(Dependencies{}))
	result, err := runner.Run(cancelCtx, ctx)
	require.Error(t, err)
	require.False(t, result.Completed)
}
