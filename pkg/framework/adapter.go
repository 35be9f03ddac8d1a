// Package framework describes the HTTP dialects generated code can
// target. The route emitter renders registrations through an Adapter; the
// controller emitter only reads Adapter.Name() to pick its template, and
// those templates reference chi or httpkit directly. Two
// adapters are supplied: a middleware-chain dialect grounded on the
// go-chi stack, and a plugin-register dialect in the Fastify-schema
// idiom the teacher's config layer was already aware of for its JS
// targets, rendered here in Go terms as a declarative route-table
// dialect.
package framework

// HandlerSpec describes one generated handler's signature inputs.
type HandlerSpec struct {
	Name       string
	ModelName  string
	ReturnType string
}

// Param describes one request parameter a handler extracts (path/query).
type Param struct {
	Name     string
	Source   string // "path" | "query"
	Type     string
	Required bool
}

// Adapter renders dialect-specific source fragments from dialect-neutral
// specs. Every Render* method returns a ready-to-paste Go source fragment;
// of these, only RenderRouteRegistration is called by an emitter (the
// route emitter).
type Adapter interface {
	Name() string
	RenderHandlerSignature(spec HandlerSpec) string
	RenderParamExtraction(params []Param) string
	RenderBodyValidation(schemaRef string) string
	RenderSuccessResponse(status int, dataExpr string) string
	RenderErrorResponse(errorExpr string) string
	RenderRouteRegistration(method, path, handlerName string, middlewares []string) string
}
