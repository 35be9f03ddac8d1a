package phase

import (
	"context"
	"sort"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// GlobalEmitFunc is the contract for emitters that operate over the whole
// schema rather than one model at a time (OpenAPI, scaffold, CI, barrels).
type GlobalEmitFunc func(ctx *Context) ([]filemap.GeneratedFile, []ir.Diagnostic)

// Dependencies wires every emitter the phase list calls into. Each field
// is nil-able: a nil dependency makes its phase a no-op (CanSkip reports
// true), which lets callers build a runner with only the emitters they
// need — useful for tests that exercise a handful of phases in
// isolation.
type Dependencies struct {
	DTO        ModelEmitFunc
	Validator  ModelEmitFunc
	Service    ModelEmitFunc
	Controller ModelEmitFunc
	Route      ModelEmitFunc
	SDKClient  ModelEmitFunc
	CoreQuery  ModelEmitFunc
	Hooks      ModelEmitFunc
	Test       ModelEmitFunc
	Admin      ModelEmitFunc

	Registry ModelEmitFunc // registry-mode bundle replacing DTO/Validator/Service/Controller/Route

	OpenAPI  GlobalEmitFunc
	Scaffold GlobalEmitFunc
	CI       GlobalEmitFunc
	Barrels  GlobalEmitFunc
}

func modelPhase(name string, fn ModelEmitFunc) Phase {
	return Phase{
		Name:    name,
		CanSkip: func(ctx *Context) bool { return fn == nil },
		Run: func(ctx *Context) error {
			return FanOutModels(ctx, name, fn)
		},
	}
}

func globalPhase(name string, fn GlobalEmitFunc) Phase {
	return Phase{
		Name:    name,
		CanSkip: func(ctx *Context) bool { return fn == nil },
		Run: func(ctx *Context) error {
			files, diags := fn(ctx)
			for _, f := range files {
				if err := ctx.Files.Put(f, false); err != nil {
					ctx.Errors.Push(filemap.ErrorEntry{
						Severity: severityForFileMapErr(err),
						Phase:    name,
						Origin:   name,
						Message:  err.Error(),
						Cause:    err,
					})
				}
			}
			for _, d := range diags {
				ctx.Errors.Push(filemap.ErrorEntry{
					Severity: filemap.Severity(d.Severity),
					Phase:    name,
					Origin:   name,
					Message:  d.String(),
				})
			}
			return nil
		},
	}
}

func setupOutputPhase() Phase {
	return Phase{
		Name: "SetupOutput",
		Run: func(ctx *Context) error {
			return nil
		},
	}
}

func validateSchemaPhase() Phase {
	return Phase{
		Name: "ValidateSchema",
		Run: func(ctx *Context) error {
			diags, err := ir.Validate(ctx.Schema, ir.ValidateOptions{ThrowOnError: ctx.Config.Strict})
			for _, d := range diags.Errors {
				sev := filemap.SeverityError
				if d.Severity == ir.SeverityFatal {
					sev = filemap.SeverityFatal
				}
				ctx.Errors.Push(filemap.ErrorEntry{Severity: sev, Phase: "ValidateSchema", Origin: "validator", ModelName: d.ModelName, Message: d.String()})
			}
			for _, d := range diags.Warnings {
				ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.SeverityWarn, Phase: "ValidateSchema", Origin: "validator", ModelName: d.ModelName, Message: d.String()})
			}
			for _, d := range diags.Infos {
				ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.SeverityInfo, Phase: "ValidateSchema", Origin: "validator", ModelName: d.ModelName, Message: d.String()})
			}
			if err != nil {
				return err
			}
			return nil
		},
	}
}

func analyzeRelationshipsPhase() Phase {
	return Phase{
		Name: "AnalyzeRelationships",
		Run: func(ctx *Context) error {
			diags := ctx.Analysis.Build(ctx.Schema)
			for _, d := range diags {
				sev := filemap.SeverityWarn
				if d.Severity == ir.SeverityError {
					sev = filemap.SeverityError
				} else if d.Severity == ir.SeverityFatal {
					sev = filemap.SeverityFatal
				}
				ctx.Errors.Push(filemap.ErrorEntry{Severity: sev, Phase: "AnalyzeRelationships", Origin: "analyzer", ModelName: d.ModelName, Message: d.String()})
			}
			return nil
		},
	}
}

func generatePluginsPhase() Phase {
	return Phase{
		Name: "GeneratePlugins",
		CanSkip: func(ctx *Context) bool {
			return ctx.Plugins == nil || len(ctx.Config.PluginIDs()) == 0
		},
		Run: func(ctx *Context) error {
			ordered := ctx.Plugins.Ordered(ctx.Config.PluginIDs())

			rc := plugin.RequestContext{Schema: ctx.Schema, Analysis: ctx.Analysis, Logger: noopLogger{}}

			for _, desc := range ordered {
				rc.Config = ctx.Config.PluginConfig(desc.ID())

				result, err := desc.Validate(context.Background(), rc)
				if err != nil {
					ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.SeverityFatal, Phase: "GeneratePlugins", Origin: desc.ID(), Message: err.Error(), Cause: err})
					continue
				}
				for _, d := range result.Diagnostics {
					ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.Severity(d.Severity), Phase: "GeneratePlugins", Origin: desc.ID(), ModelName: d.ModelName, Message: d.String()})
				}

				out, err := desc.Generate(context.Background(), rc)
				if err != nil {
					ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.SeverityFatal, Phase: "GeneratePlugins", Origin: desc.ID(), Message: err.Error(), Cause: err})
					continue
				}

				for _, f := range out.Files {
					if err := ctx.Files.Put(f, f.Overridable); err != nil {
						ctx.Errors.Push(filemap.ErrorEntry{Severity: filemap.SeverityFatal, Phase: "GeneratePlugins", Origin: desc.ID(), Message: err.Error(), Cause: err})
					}
				}
				ctx.PluginRoutes = append(ctx.PluginRoutes, out.Routes...)
				ctx.PluginMiddleware = append(ctx.PluginMiddleware, out.Middleware...)
				for k, v := range out.EnvVars {
					ctx.PluginEnvVars[k] = v
				}
				for k, v := range out.Deps {
					ctx.PluginDeps[k] = v
				}
				ctx.PluginHealth = append(ctx.PluginHealth, out.HealthSections...)
				ctx.pluginVersions[desc.ID()] = desc.Version()
			}

			sort.Slice(ctx.PluginMiddleware, func(i, j int) bool {
				return ctx.PluginMiddleware[i].Order < ctx.PluginMiddleware[j].Order
			})

			return nil
		},
	}
}

func finalizePhase() Phase {
	return Phase{
		Name: "Finalize",
		Run: func(ctx *Context) error {
			ctx.finalize()
			ctx.Files.Freeze()
			return nil
		},
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Standard returns the 16-phase legacy-mode list from spec.md §4.3.
func Standard(deps Dependencies) []Phase {
	return []Phase{
		setupOutputPhase(),
		validateSchemaPhase(),
		analyzeRelationshipsPhase(),
		modelPhase("GenerateContracts", combineModelEmitters(deps.DTO, deps.Validator, deps.Admin)),
		modelPhase("GenerateServices", deps.Service),
		modelPhase("GenerateControllers", deps.Controller),
		modelPhase("GenerateRoutes", deps.Route),
		modelPhase("GenerateSDK", combineModelEmitters(deps.SDKClient, deps.CoreQuery)),
		modelPhase("GenerateHooks", deps.Hooks),
		globalPhase("GenerateOpenAPI", deps.OpenAPI),
		generatePluginsPhase(),
		modelPhase("GenerateTests", deps.Test),
		globalPhase("GenerateCI", deps.CI),
		globalPhase("GenerateScaffold", deps.Scaffold),
		globalPhase("BuildBarrels", deps.Barrels),
		finalizePhase(),
	}
}

// Registry returns the phase list with phases 4-7 collapsed into one
// GenerateRegistry phase, selected when config.useRegistry is true.
func Registry(deps Dependencies) []Phase {
	return []Phase{
		setupOutputPhase(),
		validateSchemaPhase(),
		analyzeRelationshipsPhase(),
		modelPhase("GenerateRegistry", combineModelEmitters(deps.Registry, deps.Admin)),
		modelPhase("GenerateSDK", combineModelEmitters(deps.SDKClient, deps.CoreQuery)),
		modelPhase("GenerateHooks", deps.Hooks),
		globalPhase("GenerateOpenAPI", deps.OpenAPI),
		generatePluginsPhase(),
		modelPhase("GenerateTests", deps.Test),
		globalPhase("GenerateCI", deps.CI),
		globalPhase("GenerateScaffold", deps.Scaffold),
		globalPhase("BuildBarrels", deps.Barrels),
		finalizePhase(),
	}
}

// ForMode picks Standard or Registry per config.useRegistry, matching the
// "all downstream phases see the same file-map shape" guarantee.
func ForMode(useRegistry bool, deps Dependencies) []Phase {
	if useRegistry {
		return Registry(deps)
	}
	return Standard(deps)
}

// combineModelEmitters runs every non-nil emitter over the same model and
// concatenates their outputs, used where the legacy phase list names a
// single phase for two emitters (GenerateSDK = clients + core queries,
// GenerateContracts = DTOs + validators).
func combineModelEmitters(fns ...ModelEmitFunc) ModelEmitFunc {
	present := make([]ModelEmitFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			present = append(present, fn)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return func(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
		var files []filemap.GeneratedFile
		var diags []ir.Diagnostic
		for _, fn := range present {
			f, d := fn(model, analysis, cfg)
			files = append(files, f...)
			diags = append(diags, d...)
		}
		return files, diags
	}
}
