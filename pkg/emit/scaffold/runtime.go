package scaffold

// renderAPIErrors renders gen/apierrors/apierrors.go: the universal error
// shape every controller dialect maps storage/validation failures into
// (spec.md §4.5.4's {error: code, message, details?, status, requestId}).
func renderAPIErrors() string {
	return `// Package apierrors is the universal error shape controllers translate
// storage and validation failures into, and the sentinel errors a store
// implementation is expected to return so FromStorageError can map them
// to the right HTTP status.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the wire shape of every API error response.
type Error struct {
	Code      string            ` + "`json:\"error\"`" + `
	Message   string            ` + "`json:\"message\"`" + `
	Details   map[string]string ` + "`json:\"details,omitempty\"`" + `
	Status    int               ` + "`json:\"status\"`" + `
	RequestID string            ` + "`json:\"requestId,omitempty\"`" + `
}

func (e *Error) Error() string { return e.Message }

// Sentinel storage errors a store implementation returns so
// FromStorageError can translate them without depending on the store's
// concrete type.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueConstraint    = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// InvalidBody wraps a request body decode failure as a 400.
func InvalidBody(err error) *Error {
	return &Error{Code: "invalid_body", Message: err.Error(), Status: http.StatusBadRequest}
}

// ValidationFailed wraps a go-playground/validator error as a 422.
func ValidationFailed(err error) *Error {
	return &Error{Code: "validation_failed", Message: err.Error(), Status: http.StatusUnprocessableEntity}
}

// NotFound reports that resource with the given id does not exist.
func NotFound(resource string, id interface{}) *Error {
	return &Error{Code: "not_found", Message: resource + " not found", Status: http.StatusNotFound, Details: map[string]string{"id": toString(id)}}
}

// FromStorageError maps a store error to the matching HTTP status:
// unique-constraint -> 409, record-not-found -> 404,
// foreign-key-violation -> 400, anything else -> 500.
func FromStorageError(err error) *Error {
	switch {
	case errors.Is(err, ErrNotFound):
		return &Error{Code: "not_found", Message: err.Error(), Status: http.StatusNotFound}
	case errors.Is(err, ErrUniqueConstraint):
		return &Error{Code: "conflict", Message: err.Error(), Status: http.StatusConflict}
	case errors.Is(err, ErrForeignKeyViolation):
		return &Error{Code: "invalid_reference", Message: err.Error(), Status: http.StatusBadRequest}
	default:
		return &Error{Code: "internal", Message: "internal server error", Status: http.StatusInternalServerError}
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
`
}

// renderReqCtx renders gen/reqctx/reqctx.go: the request-id context key
// both the middleware (src/middleware.go) and the controller helpers
// (gen/controllers/helpers.go) need to share without either importing
// the other's package.
func renderReqCtx() string {
	return `// Package reqctx carries the request-scoped values (request id) that
// middleware sets and downstream handlers and loggers read, without the
// middleware and handler packages needing to import each other.
package reqctx

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stashed in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
`
}

// renderControllerHelpers renders gen/controllers/helpers.go: the
// package-level writeJSON/writeError/decodeJSON/validate helpers every
// per-model middleware-chain controller file calls without importing
// them, since they live in the same gen/controllers package.
func renderControllerHelpers() string {
	return `package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/schemagen/schemagen/gen/apierrors"
	"github.com/schemagen/schemagen/gen/reqctx"
)

// validate is shared across every generated handler; go-playground's
// Validate is safe for concurrent use once built, per its own docs.
var validate = validator.New()

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.Error) {
	apiErr.RequestID = reqctx.RequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
`
}

// renderHTTPKit renders gen/httpkit/httpkit.go: the declarative
// route-table runtime the plugin-register dialect's controller and route
// emitters target instead of calling chi directly.
func renderHTTPKit() string {
	return `// Package httpkit is the plugin-register dialect's HTTP runtime: routes
// are data (a Route registered into a RouteTable) rather than imperative
// chi calls, and handlers are pure functions from Request to Result.
package httpkit

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/schemagen/schemagen/gen/apierrors"
	"github.com/schemagen/schemagen/gen/reqctx"
)

var validate = validator.New()

// Request is the dialect-neutral request view handlers receive.
type Request struct {
	Raw    *http.Request
	Params map[string]string
	Query  interface {
		Get(string) string
	}
}

func (r *Request) Context() context.Context { return r.Raw.Context() }

// Result is what a Handler returns: a status and a body to encode, or an
// error result produced by ErrorResult.
type Result struct {
	Status int
	Body   interface{}
	Err    *apierrors.Error
}

// Handler is the plugin-register dialect's handler shape.
type Handler func(req *Request) Result

// Plugin is a named middleware applied around a route, analogous to the
// middleware-chain dialect's r.With(...).
type Plugin func(Handler) Handler

// Route is one declaratively registered endpoint.
type Route struct {
	Method  string
	Path    string
	Handler Handler
	Plugins []Plugin
}

// RouteTable accumulates routes registered by each model's
// Register{Model}Routes function, then mounts them onto a chi router at
// startup.
type RouteTable struct {
	routes []Route
}

func NewRouteTable() *RouteTable { return &RouteTable{} }

func (t *RouteTable) Register(r Route) { t.routes = append(t.routes, r) }

// Routes returns every registered route, sorted by path then method for
// deterministic mounting order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// NewResult builds a successful Result.
func NewResult(status int, body interface{}) Result {
	return Result{Status: status, Body: body}
}

// ErrorResult wraps err as an error Result, mapping it through
// apierrors.FromStorageError unless it is already an *apierrors.Error.
func ErrorResult(err error) Result {
	if apiErr, ok := err.(*apierrors.Error); ok {
		return Result{Status: apiErr.Status, Err: apiErr}
	}
	apiErr := apierrors.FromStorageError(err)
	return Result{Status: apiErr.Status, Err: apiErr}
}

// DecodeAndValidate decodes req's JSON body into T and validates it,
// returning an *apierrors.Error on either failure.
func DecodeAndValidate[T any](req *Request) (T, error) {
	var body T
	defer req.Raw.Body.Close()
	if err := json.NewDecoder(req.Raw.Body).Decode(&body); err != nil {
		return body, apierrors.InvalidBody(err)
	}
	if err := validate.Struct(body); err != nil {
		return body, apierrors.ValidationFailed(err)
	}
	return body, nil
}

// Mount registers every route in t onto router, translating chi's path
// params (set once chi has matched the route pattern) into a Request and
// this package's Result back into the wire response. chi owns pattern
// matching ("/posts/{id}"); the table only owns dispatch to a Handler.
func (t *RouteTable) Mount(router chi.Router) {
	for _, route := range t.Routes() {
		h := route.Handler
		for i := len(route.Plugins) - 1; i >= 0; i-- {
			h = route.Plugins[i](h)
		}
		router.MethodFunc(route.Method, route.Path, adaptHandler(h))
	}
}

func adaptHandler(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		params := map[string]string{}
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				params[key] = rctx.URLParams.Values[i]
			}
		}
		req := &Request{Raw: r, Params: params, Query: r.URL.Query()}
		result := h(req)
		if result.Err != nil {
			result.Err.RequestID = reqctx.RequestID(r.Context())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(result.Err.Status)
			_ = json.NewEncoder(w).Encode(result.Err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(result.Status)
		if result.Body != nil {
			_ = json.NewEncoder(w).Encode(result.Body)
		}
	}
}
`
}
