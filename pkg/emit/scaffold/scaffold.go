// Package scaffold implements the Scaffold Emitter (spec.md §4.4/§4.6): a
// global (not per-model) phase that emits the ambient project shell every
// generated API needs regardless of which models it has — config loader,
// structured logger, request-id/error-mapping middleware, the chi app
// bootstrap with graceful shutdown, a database connection pool, health/
// readiness handlers wiring ctx.PluginHealth, and CI/Docker/env scaffold
// files. It also emits the small shared runtime packages the per-model
// emitters (controller, route, sdk) call into: gen/apierrors, gen/httpkit
// (plugin-register dialect only), gen/reqctx, and gen/controllers'
// package-level helpers. Grounded on 2lar-b2/backend2/interfaces/http/rest
// (chi router, cors.Handler, health/ready handlers) and
// 2lar-b2/backend2/pkg/utils/validation.go (validate.Struct), with the
// logging stack rendered in the teacher's own rs/zerolog dependency
// instead of 2lar-b2's zap.
package scaffold

import (
	"sort"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/phase"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

// Emitter renders the whole ambient project shell as one GlobalEmitFunc.
type Emitter struct {
	Layout     *layout.Layout
	Pluralizer *pluralize.Pluralizer
	ModuleName string // import path the scaffold's own intra-project imports are rooted at
}

// New returns a Scaffold Emitter.
func New(l *layout.Layout, pluralizer *pluralize.Pluralizer, moduleName string) *Emitter {
	return &Emitter{Layout: l, Pluralizer: pluralizer, ModuleName: moduleName}
}

// Emit implements phase.GlobalEmitFunc.
func (e *Emitter) Emit(ctx *phase.Context) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	cfg := ctx.Config
	if cfg == nil {
		def := genconfig.Default()
		cfg = &def
	}

	var files []filemap.GeneratedFile
	var diags []ir.Diagnostic
	put := func(kind layout.Kind, contents string) {
		files = append(files, filemap.GeneratedFile{Path: e.Layout.PathFor(kind, ""), Contents: contents, Category: "scaffold"})
	}

	if ctx.Schema != nil {
		for i := range ctx.Schema.Models {
			model := &ctx.Schema.Models[i]
			if model.IDField == nil {
				continue // test/service emitters already surface this as an error
			}
			src, err := renderMemStore(model)
			if err != nil {
				diags = append(diags, ir.Diagnostic{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()})
				continue
			}
			files = append(files, filemap.GeneratedFile{
				Path:     e.Layout.PathFor(layout.KindMemStore, model.NameLower),
				Contents: src,
				Category: "memstore",
			})
		}
	}

	put(layout.KindAPIErrors, renderAPIErrors())
	put(layout.KindReqCtx, renderReqCtx())
	if cfg.Framework == "plugin-register" {
		put(layout.KindHTTPKit, renderHTTPKit())
	} else {
		put(layout.KindControllerHelpers, renderControllerHelpers())
	}

	put(layout.KindConfig, e.renderConfig(ctx))
	put(layout.KindLogger, renderLogger())
	put(layout.KindRequestLogger, renderRequestLogger())
	put(layout.KindMiddleware, e.renderMiddleware(ctx))
	put(layout.KindDB, renderDB())
	put(layout.KindTypesDecl, e.renderTypesDecl(ctx))
	put(layout.KindApp, e.renderApp(ctx, cfg))
	put(layout.KindServer, renderServer())

	put(layout.KindCIWorkflow, renderCIWorkflow())
	put(layout.KindDockerfile, renderDockerfile())
	put(layout.KindDockerCompose, renderDockerCompose())
	put(layout.KindEnvExample, e.renderEnvExample(ctx))

	return files, diags
}

// sortedModelNames returns every model name in the schema, ascending, so
// scaffold output (app bootstrap route registration, env var listing) is
// deterministic across runs with the same schema.
func sortedModelNames(ctx *phase.Context) []string {
	if ctx.Schema == nil {
		return nil
	}
	names := make([]string, 0, len(ctx.Schema.Models))
	for _, m := range ctx.Schema.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func sortedEnvVars(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDeps(deps map[string]string) []string {
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
