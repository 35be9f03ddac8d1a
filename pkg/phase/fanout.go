package phase

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
)

// ModelEmitFunc is the contract every per-model emitter (DTO, Validator,
// Service, Controller, Route, SDK, core query, hook, test) satisfies: a
// pure function over one model's IR, its analysis, and the normalized
// config, returning the files and diagnostics it produced. No I/O, no
// FileMap/ErrorCollector reference — the fan-out helper below is the only
// thing that appends to those shared sinks, so the emitter itself stays
// trivially unit-testable.
type ModelEmitFunc func(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic)

// FanOutModels runs emit once per model in schema.Models, in parallel
// (bounded implicitly by GOMAXPROCS via errgroup), and appends every
// returned file/diagnostic into ctx.Files/ctx.Errors. Per spec.md §5,
// the final FileMap contents must be independent of goroutine
// interleaving; FileMap.Put and ErrorCollector.Push are both safe for
// concurrent use, so no additional synchronization is needed here.
func FanOutModels(ctx *Context, phaseName string, emit ModelEmitFunc) error {
	var g errgroup.Group

	for i := range ctx.Schema.Models {
		model := &ctx.Schema.Models[i]
		g.Go(func() error {
			analysis, ok := ctx.Analysis.Lookup(model.Name)
			if !ok {
				ctx.Errors.Push(filemap.ErrorEntry{
					Severity:  filemap.SeverityFatal,
					Phase:     phaseName,
					Origin:    phaseName,
					ModelName: model.Name,
					Message:   fmt.Sprintf("no analysis cached for model %q", model.Name),
				})
				return nil
			}

			files, diags := emit(model, analysis, ctx.Config)

			for _, f := range files {
				if err := ctx.Files.Put(f, false); err != nil {
					ctx.Errors.Push(filemap.ErrorEntry{
						Severity:  severityForFileMapErr(err),
						Phase:     phaseName,
						Origin:    phaseName,
						ModelName: model.Name,
						Message:   err.Error(),
						Cause:     err,
					})
				}
			}
			for _, d := range diags {
				ctx.Errors.Push(filemap.ErrorEntry{
					Severity:  filemap.Severity(d.Severity),
					Phase:     phaseName,
					Origin:    phaseName,
					ModelName: model.Name,
					Message:   d.String(),
				})
			}
			return nil
		})
	}

	return g.Wait()
}

func severityForFileMapErr(err error) filemap.Severity {
	switch err.(type) {
	case *filemap.ErrPathCollision, *filemap.ErrPathInvalid:
		return filemap.SeverityFatal
	default:
		return filemap.SeverityError
	}
}
