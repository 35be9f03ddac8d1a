// Package route implements the Route Emitter (spec.md §4.5.5): wires
// controller handlers onto an HTTP-router abstraction, deriving path
// segments from pkg/pluralize so the same plural form appears in the
// controller's route, the SDK client's path, and the OpenAPI document
// (spec.md §8's p = q testable property). Grounded on
// 2lar-b2/backend2/interfaces/http/rest/router.go's route-table wiring.
package route

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/framework"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

// Emitter renders the route-wiring file for one model.
type Emitter struct {
	Layout     *layout.Layout
	Adapter    framework.Adapter
	Pluralizer *pluralize.Pluralizer
}

// New returns a Route Emitter.
func New(l *layout.Layout, adapter framework.Adapter, pluralizer *pluralize.Pluralizer) *Emitter {
	return &Emitter{Layout: l, Adapter: adapter, Pluralizer: pluralizer}
}

// BasePath returns the route path segment for model, exported so the SDK
// and OpenAPI emitters can derive the identical path without importing
// each other.
func BasePath(model *ir.ParsedModel, pluralizer *pluralize.Pluralizer) string {
	return "/" + strings.ToLower(pluralizer.Plural(model.Name))
}

type routeReg struct {
	method, path, handler string
}

func (e *Emitter) registrations(model *ir.ParsedModel, analysis analyzer.ModelAnalysis) (base, withID string, regs []routeReg) {
	base = BasePath(model, e.Pluralizer)
	withID = base + "/{id}"
	if analysis.Capabilities.IsJunction {
		regs = []routeReg{
			{"GET", base, "List"},
			{"GET", withID, "Get"},
		}
		return base, withID, regs
	}
	regs = []routeReg{
		{"GET", base, "List"},
		{"POST", base, "Create"},
		{"GET", withID, "Get"},
		{"PATCH", withID, "Update"},
		{"DELETE", withID, "Remove"},
	}
	return base, withID, regs
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	var b strings.Builder
	b.WriteString("package routes\n\n")

	if e.Adapter.Name() == "plugin-register" {
		e.renderPluginRegister(&b, model, analysis)
	} else {
		e.renderMiddlewareChain(&b, model, analysis)
	}

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindRoute, model.NameLower),
		Contents: b.String(),
		Category: "route",
	}
	return []filemap.GeneratedFile{file}, nil
}

func (e *Emitter) renderMiddlewareChain(b *strings.Builder, model *ir.ParsedModel, analysis analyzer.ModelAnalysis) {
	base, _, regs := e.registrations(model, analysis)
	b.WriteString("import (\n\t\"github.com/go-chi/chi/v5\"\n\n\t\"github.com/schemagen/schemagen/gen/controllers\"\n)\n\n")
	fmt.Fprintf(b, "// Register%sRoutes wires %sHandler onto r, exposing %s.\n", model.Name, model.Name, base)
	fmt.Fprintf(b, "func Register%sRoutes(r chi.Router, h *controllers.%sHandler) []string {\n", model.Name, model.Name)
	b.WriteString("\tvar registered []string\n")
	for _, reg := range regs {
		b.WriteString(e.Adapter.RenderRouteRegistration(reg.method, reg.path, reg.handler, nil))
		fmt.Fprintf(b, "\tregistered = append(registered, %q)\n", reg.method+" "+reg.path)
	}
	b.WriteString("\treturn registered\n}\n")
}

func (e *Emitter) renderPluginRegister(b *strings.Builder, model *ir.ParsedModel, analysis analyzer.ModelAnalysis) {
	base, _, regs := e.registrations(model, analysis)
	b.WriteString("import (\n\t\"github.com/schemagen/schemagen/gen/controllers\"\n\t\"github.com/schemagen/schemagen/gen/httpkit\"\n)\n\n")
	fmt.Fprintf(b, "// Register%sRoutes wires the %s handler functions into table, exposing %s.\n", model.Name, model.Name, base)
	fmt.Fprintf(b, "func Register%sRoutes(table *httpkit.RouteTable, deps *controllers.%sDeps) []string {\n", model.Name, model.Name)
	b.WriteString("\tvar registered []string\n")
	for _, reg := range regs {
		handlerExpr := fmt.Sprintf("controllers.%s%s(deps)", reg.handler, model.Name)
		b.WriteString(e.Adapter.RenderRouteRegistration(reg.method, reg.path, handlerExpr, nil))
		fmt.Fprintf(b, "\tregistered = append(registered, %q)\n", reg.method+" "+reg.path)
	}
	b.WriteString("\treturn registered\n}\n")
}
