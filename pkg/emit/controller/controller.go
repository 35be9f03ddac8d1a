// Package controller implements the Controller Emitter (spec.md §4.5.4):
// per model, request handlers for list/get/create/update/remove. Emit picks
// one of two templates by the framework.Adapter's Name(); each template
// writes its dialect's calls (chi.URLParam, httpkit) directly, and the
// Adapter's Render* fragment methods are not used here. Grounded on
// 2lar-b2/backend2/interfaces/http/rest handler shapes, generalized from
// one hand-written handler set to a framework-adapter-driven template.
package controller

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/framework"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/gotype"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

// Emitter renders the controller file for one model.
type Emitter struct {
	Layout  *layout.Layout
	Adapter framework.Adapter
}

// New returns a Controller Emitter bound to a Layout and dialect Adapter.
func New(l *layout.Layout, adapter framework.Adapter) *Emitter {
	return &Emitter{Layout: l, Adapter: adapter}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	if model.IDField == nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: "model has no id field; controller emitter requires one"}}
	}
	idType, err := gotype.Resolve(model.Name, model.IDField)
	if err != nil {
		return nil, []ir.Diagnostic{{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()}}
	}
	idType = strings.TrimPrefix(idType, "*")
	idConv := idConversion(idType)

	var b strings.Builder
	b.WriteString("package controllers\n\n")

	switch e.Adapter.Name() {
	case "plugin-register":
		e.renderPluginRegister(&b, model, idType, idConv, analysis)
	default:
		e.renderMiddlewareChain(&b, model, idType, idConv, analysis)
	}

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindController, model.NameLower),
		Contents: b.String(),
		Category: "controller",
	}
	return []filemap.GeneratedFile{file}, nil
}

// idConversion returns the name of the helper the rendered handlers call
// to parse a path-param string into idType ("strconvID" for integer ids),
// or "" when the id is used as the raw string.
func idConversion(idType string) string {
	switch idType {
	case "int", "int32", "int64":
		return "strconvID"
	default:
		return ""
	}
}

func (e *Emitter) renderMiddlewareChain(b *strings.Builder, model *ir.ParsedModel, idType, idConv string, analysis analyzer.ModelAnalysis) {
	b.WriteString("import (\n")
	b.WriteString("\t\"net/http\"\n\t\"strconv\"\n\n")
	b.WriteString("\t\"github.com/go-chi/chi/v5\"\n\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/apierrors\"\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/contracts\"\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/services\"\n")
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// %sHandler adapts %sService to the %s dialect.\n", model.Name, model.Name, e.Adapter.Name())
	fmt.Fprintf(b, "type %sHandler struct {\n\tservice *services.%sService\n}\n\n", model.Name, model.Name)
	fmt.Fprintf(b, "func New%sHandler(service *services.%sService) *%sHandler {\n\treturn &%sHandler{service: service}\n}\n\n", model.Name, model.Name, model.Name, model.Name)

	e.renderChainList(b, model)
	e.renderChainGet(b, model, idType, idConv)
	if analysis.Capabilities.IsJunction {
		return
	}
	e.renderChainCreate(b, model)
	e.renderChainUpdate(b, model, idType, idConv)
	e.renderChainRemove(b, model, idType, idConv)
}

func (e *Emitter) renderChainList(b *strings.Builder, model *ir.ParsedModel) {
	fmt.Fprintf(b, "// List handles GET over the %s collection.\n", model.NameLower)
	fmt.Fprintf(b, "func (h *%sHandler) List(w http.ResponseWriter, r *http.Request) {\n", model.Name)
	b.WriteString("\tq := contracts.Query" + model.Name + "DTO{}\n")
	b.WriteString("\tif v := r.URL.Query().Get(\"skip\"); v != \"\" {\n\t\tif n, err := strconv.Atoi(v); err == nil {\n\t\t\tq.Skip = &n\n\t\t}\n\t}\n")
	b.WriteString("\tif v := r.URL.Query().Get(\"take\"); v != \"\" {\n\t\tif n, err := strconv.Atoi(v); err == nil {\n\t\t\tq.Take = &n\n\t\t}\n\t}\n")
	b.WriteString("\tpage, err := h.service.List(r.Context(), q, false)\n")
	b.WriteString("\tif err != nil {\n\t\twriteError(w, r, apierrors.FromStorageError(err))\n\t\treturn\n\t}\n")
	b.WriteString("\twriteJSON(w, r, http.StatusOK, page)\n}\n\n")
}

func (e *Emitter) renderChainGet(b *strings.Builder, model *ir.ParsedModel, idType, idConv string) {
	fmt.Fprintf(b, "// Get handles GET for one %s by id.\n", model.NameLower)
	fmt.Fprintf(b, "func (h *%sHandler) Get(w http.ResponseWriter, r *http.Request) {\n", model.Name)
	b.WriteString("\trawID := chi.URLParam(r, \"id\")\n")
	e.renderChainIDParse(b, model, idType, idConv)
	b.WriteString("\titem, err := h.service.Get(r.Context(), id)\n")
	b.WriteString("\tif err != nil {\n\t\twriteError(w, r, apierrors.FromStorageError(err))\n\t\treturn\n\t}\n")
	fmt.Fprintf(b, "\tif item == nil {\n\t\twriteError(w, r, apierrors.NotFound(%q, rawID))\n\t\treturn\n\t}\n", model.Name)
	b.WriteString("\twriteJSON(w, r, http.StatusOK, item)\n}\n\n")
}

// renderChainIDParse declares a concrete id variable of idType from the
// rawID string extracted by the router, matching the path-param
// extraction every dialect renders as an untyped string.
func (e *Emitter) renderChainIDParse(b *strings.Builder, model *ir.ParsedModel, idType, idConv string) {
	switch idConv {
	case "strconvID":
		fmt.Fprintf(b, "\tparsed, err := strconv.ParseInt(rawID, 10, 64)\n\tif err != nil {\n\t\twriteError(w, r, apierrors.InvalidBody(err))\n\t\treturn\n\t}\n\tid := %s(parsed)\n", idType)
	default:
		b.WriteString("\tid := rawID\n")
	}
}

func (e *Emitter) renderChainCreate(b *strings.Builder, model *ir.ParsedModel) {
	fmt.Fprintf(b, "// Create handles POST to create a %s.\n", model.NameLower)
	fmt.Fprintf(b, "func (h *%sHandler) Create(w http.ResponseWriter, r *http.Request) {\n", model.Name)
	fmt.Fprintf(b, "\tvar in contracts.Create%sDTO\n", model.Name)
	b.WriteString("\tif err := decodeJSON(r, &in); err != nil {\n\t\twriteError(w, r, apierrors.InvalidBody(err))\n\t\treturn\n\t}\n")
	b.WriteString("\tif err := validate.Struct(in); err != nil {\n\t\twriteError(w, r, apierrors.ValidationFailed(err))\n\t\treturn\n\t}\n")
	b.WriteString("\tcreated, err := h.service.Create(r.Context(), in)\n")
	b.WriteString("\tif err != nil {\n\t\twriteError(w, r, apierrors.FromStorageError(err))\n\t\treturn\n\t}\n")
	b.WriteString("\twriteJSON(w, r, http.StatusCreated, created)\n}\n\n")
}

func (e *Emitter) renderChainUpdate(b *strings.Builder, model *ir.ParsedModel, idType, idConv string) {
	fmt.Fprintf(b, "// Update handles PATCH to partially update a %s.\n", model.NameLower)
	fmt.Fprintf(b, "func (h *%sHandler) Update(w http.ResponseWriter, r *http.Request) {\n", model.Name)
	b.WriteString("\trawID := chi.URLParam(r, \"id\")\n")
	e.renderChainIDParse(b, model, idType, idConv)
	fmt.Fprintf(b, "\tvar in contracts.Update%sDTO\n", model.Name)
	b.WriteString("\tif err := decodeJSON(r, &in); err != nil {\n\t\twriteError(w, r, apierrors.InvalidBody(err))\n\t\treturn\n\t}\n")
	b.WriteString("\tif err := validate.Struct(in); err != nil {\n\t\twriteError(w, r, apierrors.ValidationFailed(err))\n\t\treturn\n\t}\n")
	b.WriteString("\tupdated, err := h.service.Update(r.Context(), id, in)\n")
	b.WriteString("\tif err != nil {\n\t\twriteError(w, r, apierrors.FromStorageError(err))\n\t\treturn\n\t}\n")
	b.WriteString("\twriteJSON(w, r, http.StatusOK, updated)\n}\n\n")
}

func (e *Emitter) renderChainRemove(b *strings.Builder, model *ir.ParsedModel, idType, idConv string) {
	fmt.Fprintf(b, "// Remove handles DELETE for one %s by id.\n", model.NameLower)
	fmt.Fprintf(b, "func (h *%sHandler) Remove(w http.ResponseWriter, r *http.Request) {\n", model.Name)
	b.WriteString("\trawID := chi.URLParam(r, \"id\")\n")
	e.renderChainIDParse(b, model, idType, idConv)
	b.WriteString("\tok, err := h.service.Remove(r.Context(), id)\n")
	b.WriteString("\tif err != nil {\n\t\twriteError(w, r, apierrors.FromStorageError(err))\n\t\treturn\n\t}\n")
	fmt.Fprintf(b, "\tif !ok {\n\t\twriteError(w, r, apierrors.NotFound(%q, rawID))\n\t\treturn\n\t}\n", model.Name)
	b.WriteString("\tw.WriteHeader(http.StatusNoContent)\n}\n\n")
}

func (e *Emitter) renderPluginRegister(b *strings.Builder, model *ir.ParsedModel, idType, idConv string, analysis analyzer.ModelAnalysis) {
	b.WriteString("import (\n")
	b.WriteString("\t\"strconv\"\n\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/apierrors\"\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/contracts\"\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/httpkit\"\n")
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/services\"\n")
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// %sDeps carries the %s service into the plugin-register handlers below.\n", model.Name, model.Name)
	fmt.Fprintf(b, "type %sDeps struct {\n\tService *services.%sService\n}\n\n", model.Name, model.Name)

	fmt.Fprintf(b, "func List%s(deps *%sDeps) httpkit.Handler {\n", model.Name, model.Name)
	b.WriteString("\treturn func(req *httpkit.Request) httpkit.Result {\n")
	b.WriteString("\t\tq := contracts.Query" + model.Name + "DTO{}\n")
	b.WriteString("\t\tif v := req.Query.Get(\"skip\"); v != \"\" {\n\t\t\tif n, err := strconv.Atoi(v); err == nil {\n\t\t\t\tq.Skip = &n\n\t\t\t}\n\t\t}\n")
	b.WriteString("\t\tif v := req.Query.Get(\"take\"); v != \"\" {\n\t\t\tif n, err := strconv.Atoi(v); err == nil {\n\t\t\t\tq.Take = &n\n\t\t\t}\n\t\t}\n")
	b.WriteString("\t\tpage, err := deps.Service.List(req.Context(), q, false)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.FromStorageError(err))\n\t\t}\n")
	b.WriteString("\t\treturn httpkit.NewResult(200, page)\n\t}\n}\n\n")

	fmt.Fprintf(b, "func Get%s(deps *%sDeps) httpkit.Handler {\n", model.Name, model.Name)
	b.WriteString("\treturn func(req *httpkit.Request) httpkit.Result {\n")
	b.WriteString("\t\trawID := req.Params[\"id\"]\n")
	e.renderPluginIDParse(b, idType, idConv)
	b.WriteString("\t\titem, err := deps.Service.Get(req.Context(), id)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.FromStorageError(err))\n\t\t}\n")
	fmt.Fprintf(b, "\t\tif item == nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.NotFound(%q, rawID))\n\t\t}\n", model.Name)
	b.WriteString("\t\treturn httpkit.NewResult(200, item)\n\t}\n}\n\n")

	if analysis.Capabilities.IsJunction {
		return
	}

	fmt.Fprintf(b, "func Create%s(deps *%sDeps) httpkit.Handler {\n", model.Name, model.Name)
	b.WriteString("\treturn func(req *httpkit.Request) httpkit.Result {\n")
	fmt.Fprintf(b, "\t\tin, err := httpkit.DecodeAndValidate[contracts.Create%sDTO](req)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(err)\n\t\t}\n", model.Name)
	b.WriteString("\t\tcreated, err := deps.Service.Create(req.Context(), in)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.FromStorageError(err))\n\t\t}\n")
	b.WriteString("\t\treturn httpkit.NewResult(201, created)\n\t}\n}\n\n")

	fmt.Fprintf(b, "func Update%s(deps *%sDeps) httpkit.Handler {\n", model.Name, model.Name)
	b.WriteString("\treturn func(req *httpkit.Request) httpkit.Result {\n")
	b.WriteString("\t\trawID := req.Params[\"id\"]\n")
	e.renderPluginIDParse(b, idType, idConv)
	fmt.Fprintf(b, "\t\tin, err := httpkit.DecodeAndValidate[contracts.Update%sDTO](req)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(err)\n\t\t}\n", model.Name)
	b.WriteString("\t\tupdated, err := deps.Service.Update(req.Context(), id, in)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.FromStorageError(err))\n\t\t}\n")
	b.WriteString("\t\treturn httpkit.NewResult(200, updated)\n\t}\n}\n\n")

	fmt.Fprintf(b, "func Remove%s(deps *%sDeps) httpkit.Handler {\n", model.Name, model.Name)
	b.WriteString("\treturn func(req *httpkit.Request) httpkit.Result {\n")
	b.WriteString("\t\trawID := req.Params[\"id\"]\n")
	e.renderPluginIDParse(b, idType, idConv)
	b.WriteString("\t\tok, err := deps.Service.Remove(req.Context(), id)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.FromStorageError(err))\n\t\t}\n")
	fmt.Fprintf(b, "\t\tif !ok {\n\t\t\treturn httpkit.ErrorResult(apierrors.NotFound(%q, rawID))\n\t\t}\n", model.Name)
	b.WriteString("\t\treturn httpkit.NewResult(204, nil)\n\t}\n}\n\n")
}

func (e *Emitter) renderPluginIDParse(b *strings.Builder, idType, idConv string) {
	switch idConv {
	case "strconvID":
		fmt.Fprintf(b, "\t\tparsed, err := strconv.ParseInt(rawID, 10, 64)\n\t\tif err != nil {\n\t\t\treturn httpkit.ErrorResult(apierrors.InvalidBody(err))\n\t\t}\n\t\tid := %s(parsed)\n", idType)
	default:
		b.WriteString("\t\tid := rawID\n")
	}
}

// APIErrorResponseDoc documents the universal error shape controllers
// translate storage errors into (spec.md §4.5.4).
const APIErrorResponseDoc = `{error: code, message, details?, status, requestId}`
