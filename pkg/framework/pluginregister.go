package framework

import (
	"fmt"
	"strings"
)

// PluginRegisterAdapter renders the declarative dialect where each route
// is described as data — method, path, schema, handler, plugins — and
// registered into a table at startup, rather than called imperatively
// against a router value. This is the Go rendering of the Fastify/
// schema-attached-per-route style spec.md §4.4 asks the controller
// emitter to stay agnostic of; handlers are httpkit.Handler values, and
// route wiring goes through a RouteTable value instead of chi calls.
type PluginRegisterAdapter struct{}

func (PluginRegisterAdapter) Name() string { return "plugin-register" }

func (PluginRegisterAdapter) RenderHandlerSignature(spec HandlerSpec) string {
	return fmt.Sprintf("func %s(deps *%sDeps) httpkit.Handler", spec.Name, spec.ModelName)
}

func (PluginRegisterAdapter) RenderParamExtraction(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		switch p.Source {
		case "path":
			fmt.Fprintf(&b, "\t%s := req.Params[%q]\n", p.Name, p.Name)
		case "query":
			fmt.Fprintf(&b, "\t%s := req.Query.Get(%q)\n", p.Name, p.Name)
		}
	}
	return b.String()
}

func (PluginRegisterAdapter) RenderBodyValidation(schemaRef string) string {
	return fmt.Sprintf(
		"\tbody, err := httpkit.DecodeAndValidate[%s](req)\n\tif err != nil {\n\t\treturn httpkit.ErrorResult(err)\n\t}\n",
		schemaRef,
	)
}

func (PluginRegisterAdapter) RenderSuccessResponse(status int, dataExpr string) string {
	return fmt.Sprintf("\treturn httpkit.NewResult(%d, %s)\n", status, dataExpr)
}

func (PluginRegisterAdapter) RenderErrorResponse(errorExpr string) string {
	return fmt.Sprintf("\treturn httpkit.ErrorResult(%s)\n", errorExpr)
}

func (PluginRegisterAdapter) RenderRouteRegistration(method, path, handlerName string, middlewares []string) string {
	plugins := "nil"
	if len(middlewares) > 0 {
		plugins = fmt.Sprintf("[]httpkit.Plugin{%s}", strings.Join(middlewares, ", "))
	}
	return fmt.Sprintf(
		"\ttable.Register(httpkit.Route{Method: %q, Path: %q, Handler: %s, Plugins: %s})\n",
		strings.ToUpper(method), path, handlerName, plugins,
	)
}
