package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
)

func stubEmitter(path string) func(*ir.ParsedModel, analyzer.ModelAnalysis, *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	return func(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
		return []filemap.GeneratedFile{{Path: path, Contents: "x"}}, nil
	}
}

func TestNew_CombinesAllNonNilEmitters(t *testing.T) {
	fn := New(
		stubEmitter("dto.go"),
		stubEmitter("validator.go"),
		nil,
		stubEmitter("controller.go"),
		stubEmitter("route.go"),
	)
	files, diags := fn(&ir.ParsedModel{Name: "Post"}, analyzer.ModelAnalysis{}, &genconfig.Config{})
	require.Empty(t, diags)
	require.Len(t, files, 4)
}

func TestNew_AllNilProducesNoFiles(t *testing.T) {
	fn := New(nil, nil, nil, nil, nil)
	files, diags := fn(&ir.ParsedModel{Name: "Post"}, analyzer.ModelAnalysis{}, &genconfig.Config{})
	require.Empty(t, diags)
	require.Empty(t, files)
}
