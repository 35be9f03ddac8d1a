package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/phase"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

// Emitter renders gen/openapi.json plus a Swagger UI HTML shell over the
// whole schema in one pass.
type Emitter struct {
	Layout      *layout.Layout
	Pluralizer  *pluralize.Pluralizer
	Title       string
	Version     string
	ServerURL   string
}

// New returns an openapi Emitter.
func New(l *layout.Layout, pluralizer *pluralize.Pluralizer, title, version, serverURL string) *Emitter {
	if title == "" {
		title = "Generated API"
	}
	if version == "" {
		version = "0.1.0"
	}
	return &Emitter{Layout: l, Pluralizer: pluralizer, Title: title, Version: version, ServerURL: serverURL}
}

// Emit implements phase.GlobalEmitFunc.
func (e *Emitter) Emit(ctx *phase.Context) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	doc := Document{
		OpenAPI: "3.1.0",
		Info:    Info{Title: e.Title, Version: e.Version},
		Paths:   map[string]*PathItem{},
		Components: &Components{
			Schemas: map[string]*Schema{},
		},
	}
	if e.ServerURL != "" {
		doc.Servers = []Server{{URL: e.ServerURL}}
	}

	var diags []ir.Diagnostic
	for i := range ctx.Schema.Models {
		model := &ctx.Schema.Models[i]
		if model.IDField == nil {
			continue
		}
		doc.Tags = append(doc.Tags, Tag{Name: model.Name})

		readSchema, err := schemaForModel(model, false)
		if err != nil {
			diags = append(diags, ir.Diagnostic{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()})
			continue
		}
		createSchema, err := schemaForModel(model, true)
		if err != nil {
			diags = append(diags, ir.Diagnostic{Severity: ir.SeverityError, ModelName: model.Name, Message: err.Error()})
			continue
		}
		doc.Components.Schemas[model.Name] = readSchema
		doc.Components.Schemas["Create"+model.Name] = createSchema

		base := "/" + strings.ToLower(e.Pluralizer.Plural(model.Name))
		withID := base + "/{id}"
		idSchema := &Schema{Type: "string"}

		doc.Paths[base] = &PathItem{
			Get: &Operation{
				OperationID: "list" + model.Name,
				Summary:     "List " + model.Name,
				Tags:        []string{model.Name},
				Responses: Responses{
					"200": {Description: "OK", Content: map[string]MediaType{
						"application/json": {Schema: &Schema{Type: "array", Items: ref(model.Name)}},
					}},
				},
			},
			Post: &Operation{
				OperationID: "create" + model.Name,
				Summary:     "Create " + model.Name,
				Tags:        []string{model.Name},
				RequestBody: &RequestBody{Required: true, Content: map[string]MediaType{
					"application/json": {Schema: ref("Create" + model.Name)},
				}},
				Responses: Responses{
					"201": {Description: "Created", Content: map[string]MediaType{
						"application/json": {Schema: ref(model.Name)},
					}},
				},
			},
		}

		doc.Paths[withID] = &PathItem{
			Get: &Operation{
				OperationID: "get" + model.Name,
				Summary:     "Get " + model.Name + " by id",
				Tags:        []string{model.Name},
				Parameters:  []Parameter{{Name: "id", In: "path", Required: true, Schema: idSchema}},
				Responses: Responses{
					"200": {Description: "OK", Content: map[string]MediaType{"application/json": {Schema: ref(model.Name)}}},
					"404": {Description: "Not found"},
				},
			},
			Patch: &Operation{
				OperationID: "update" + model.Name,
				Summary:     "Update " + model.Name,
				Tags:        []string{model.Name},
				Parameters:  []Parameter{{Name: "id", In: "path", Required: true, Schema: idSchema}},
				RequestBody: &RequestBody{Required: true, Content: map[string]MediaType{
					"application/json": {Schema: ref("Create" + model.Name)},
				}},
				Responses: Responses{
					"200": {Description: "OK", Content: map[string]MediaType{"application/json": {Schema: ref(model.Name)}}},
					"404": {Description: "Not found"},
				},
			},
			Delete: &Operation{
				OperationID: "remove" + model.Name,
				Summary:     "Remove " + model.Name,
				Tags:        []string{model.Name},
				Parameters:  []Parameter{{Name: "id", In: "path", Required: true, Schema: idSchema}},
				Responses: Responses{
					"204": {Description: "No content"},
					"404": {Description: "Not found"},
				},
			},
		}
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		diags = append(diags, ir.Diagnostic{Severity: ir.SeverityFatal, Message: fmt.Sprintf("openapi: marshal document: %v", err)})
		return nil, diags
	}

	files := []filemap.GeneratedFile{
		{Path: e.Layout.PathFor(layout.KindOpenAPISpec, ""), Contents: string(encoded) + "\n", Category: "openapi-spec"},
		{Path: e.Layout.PathFor(layout.KindAPIDocsHTML, ""), Contents: swaggerUIHTML, Category: "openapi-docs"},
	}
	return files, diags
}

// swaggerUIHTML embeds Swagger UI's CDN bundle pointed at the emitted
// openapi.json, served alongside the generated project's static assets.
const swaggerUIHTML = `<!DOCTYPE html>
<html>
<head>
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({ url: "./openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`
