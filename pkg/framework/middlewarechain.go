package framework

import (
	"fmt"
	"strings"
)

// MiddlewareChainAdapter renders the request/response-object dialect
// idiomatic to go-chi: handlers are ordinary http.HandlerFunc values,
// path params are read off chi.URLParam, and middlewares are composed by
// passing them to r.With(...) or r.Use(...) before a route registration.
// Grounded on the teacher's Router.Setup chi wiring.
type MiddlewareChainAdapter struct{}

func (MiddlewareChainAdapter) Name() string { return "middleware-chain" }

func (MiddlewareChainAdapter) RenderHandlerSignature(spec HandlerSpec) string {
	return fmt.Sprintf("func (h *%sHandler) %s(w http.ResponseWriter, r *http.Request)", spec.ModelName, spec.Name)
}

func (MiddlewareChainAdapter) RenderParamExtraction(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		switch p.Source {
		case "path":
			fmt.Fprintf(&b, "\t%s := chi.URLParam(r, %q)\n", p.Name, p.Name)
		case "query":
			fmt.Fprintf(&b, "\t%s := r.URL.Query().Get(%q)\n", p.Name, p.Name)
		}
	}
	return b.String()
}

func (MiddlewareChainAdapter) RenderBodyValidation(schemaRef string) string {
	return fmt.Sprintf(
		"\tvar body %s\n\tif err := json.NewDecoder(r.Body).Decode(&body); err != nil {\n\t\twriteError(w, r, apierrors.InvalidBody(err))\n\t\treturn\n\t}\n\tif err := validate.Struct(body); err != nil {\n\t\twriteError(w, r, apierrors.ValidationFailed(err))\n\t\treturn\n\t}\n",
		schemaRef,
	)
}

func (MiddlewareChainAdapter) RenderSuccessResponse(status int, dataExpr string) string {
	return fmt.Sprintf("\twriteJSON(w, r, %d, %s)\n", status, dataExpr)
}

func (MiddlewareChainAdapter) RenderErrorResponse(errorExpr string) string {
	return fmt.Sprintf("\twriteError(w, r, %s)\n", errorExpr)
}

func (MiddlewareChainAdapter) RenderRouteRegistration(method, path, handlerName string, middlewares []string) string {
	chiMethod := strings.ToUpper(method)
	if len(middlewares) == 0 {
		return fmt.Sprintf("\tr.%s(%q, h.%s)\n", chiMethodName(chiMethod), path, handlerName)
	}
	return fmt.Sprintf(
		"\tr.With(%s).%s(%q, h.%s)\n",
		strings.Join(middlewares, ", "), chiMethodName(chiMethod), path, handlerName,
	)
}

func chiMethodName(method string) string {
	switch method {
	case "GET":
		return "Get"
	case "POST":
		return "Post"
	case "PUT":
		return "Put"
	case "PATCH":
		return "Patch"
	case "DELETE":
		return "Delete"
	default:
		return "Method"
	}
}
