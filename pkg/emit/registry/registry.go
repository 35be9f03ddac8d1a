// Package registry implements registry mode's single GenerateRegistry
// phase (spec.md §4.3, SPEC_FULL.md §7): the same per-model output that
// legacy mode spreads across GenerateContracts/Services/Controllers/
// Routes, collapsed into one phase by running each of those emitters in
// sequence over the same model and concatenating their files. No new
// rendering logic lives here — this package is pure composition, mirroring
// how pkg/phase.combineModelEmitters folds GenerateSDK's two emitters.
package registry

import (
	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/phase"
)

// New returns a ModelEmitFunc that runs dto, validator, service,
// controller, and route in order over each model, bundling their output
// into the single file set registry mode expects. Any nil emitter is
// skipped.
func New(dto, validator, service, controller, route phase.ModelEmitFunc) phase.ModelEmitFunc {
	fns := []phase.ModelEmitFunc{dto, validator, service, controller, route}
	return func(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
		var files []filemap.GeneratedFile
		var diags []ir.Diagnostic
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			f, d := fn(model, analysis, cfg)
			files = append(files, f...)
			diags = append(diags, d...)
		}
		return files, diags
	}
}
