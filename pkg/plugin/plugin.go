// Package plugin defines the feature-plugin contract the Plugin System
// composes into the shared file map. A plugin is a pure pair of
// (Validate, Generate) functions; the core is the only component that
// merges a plugin's Output into the run's FileMap. Adapted from the
// teacher's Plugin/Registry/Hook/Writer/Cache interfaces, generalized from
// a GraphQL-specific GenerateRequest to the schema IR + analysis cache +
// config inputs the generator actually needs.
package plugin

import (
	"context"
	"fmt"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
)

// Requirements declares what a plugin needs before it may run: models and
// enums it reads fields from, environment variables its emitted code
// expects at runtime, npm dependencies it introduces, and peer plugins it
// must run alongside.
type Requirements struct {
	Models      []string
	Enums       []string
	EnvVars     []string
	NpmDeps     map[string]string // package name -> semver range
	PeerPlugins []string
}

// RequestContext is the read-only view a plugin's Validate/Generate
// receive: the frozen schema, the built analysis cache, and its own
// config block.
type RequestContext struct {
	Schema   *ir.ParsedSchema
	Analysis *analyzer.Cache
	Config   map[string]interface{}
	Logger   Logger
}

// Logger provides leveled logging for plugins.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// HealthSection is contributed by a plugin's optional HealthCheck and
// rendered into the emitted project's /health handler by the scaffold
// emitter. It is descriptive data only — the core never executes it.
type HealthSection struct {
	Name   string
	Status string
	Detail map[string]string
}

// RouteSpec is one route a plugin contributes, merged into the route
// emitter's output.
type RouteSpec struct {
	Method      string
	Path        string
	HandlerName string
	Middlewares []string
}

// MiddlewareSpec is one middleware a plugin contributes to the scaffold's
// app bootstrap, ordered ascending by Order.
type MiddlewareSpec struct {
	Name  string
	Order int
}

// Output is what Generate returns: files plus routes/middleware/env-vars/
// deps the core merges into the shared run state.
type Output struct {
	Files          []filemap.GeneratedFile
	Routes         []RouteSpec
	Middleware     []MiddlewareSpec
	EnvVars        map[string]string
	Deps           map[string]string
	HealthSections []HealthSection
}

// ValidateResult is what Validate returns: diagnostics only. Validation
// never mutates anything and never produces files.
type ValidateResult struct {
	Diagnostics []ir.Diagnostic
}

// Descriptor is the full plugin contract.
type Descriptor interface {
	ID() string
	Version() string
	Priority() int // default 0; higher runs first
	Requirements() Requirements
	Validate(ctx context.Context, rc RequestContext) (ValidateResult, error)
	Generate(ctx context.Context, rc RequestContext) (Output, error)
	HealthCheck(ctx context.Context, rc RequestContext) (HealthSection, bool)
}

// Base implements the Priority/HealthCheck defaults; feature plugins embed
// it and override only what they need.
type Base struct {
	IDValue       string
	VersionValue  string
	PriorityValue int
}

func (b Base) ID() string      { return b.IDValue }
func (b Base) Version() string { return b.VersionValue }
func (b Base) Priority() int   { return b.PriorityValue }

func (b Base) HealthCheck(context.Context, RequestContext) (HealthSection, bool) {
	return HealthSection{}, false
}

// Registry manages the set of available plugin descriptors.
type Registry struct {
	plugins map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Descriptor)}
}

// Register adds a plugin. Registering the same ID twice is an error.
func (r *Registry) Register(p Descriptor) error {
	if p == nil {
		return fmt.Errorf("plugin: cannot register nil descriptor")
	}
	id := p.ID()
	if id == "" {
		return fmt.Errorf("plugin: descriptor has empty ID")
	}
	if _, exists := r.plugins[id]; exists {
		return fmt.Errorf("plugin: %q already registered", id)
	}
	r.plugins[id] = p
	return nil
}

// Get retrieves a plugin by ID.
func (r *Registry) Get(id string) (Descriptor, bool) {
	p, ok := r.plugins[id]
	return p, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.plugins[id]
	return ok
}

// List returns every registered plugin ID, unordered.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		out = append(out, id)
	}
	return out
}

// Ordered returns every plugin whose ID is in ids, sorted by priority
// (descending) then ID (ascending) for a stable tie-break. Unknown IDs
// are silently skipped; callers validate presence separately (see
// pkg/pluginreqs).
func (r *Registry) Ordered(ids []string) []Descriptor {
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.plugins[id]; ok {
			out = append(out, p)
		}
	}
	stableSortByPriority(out)
	return out
}

func stableSortByPriority(plugins []Descriptor) {
	// insertion sort: plugin lists are small, and stability matters more
	// than asymptotic complexity here.
	for i := 1; i < len(plugins); i++ {
		for j := i; j > 0; j-- {
			a, b := plugins[j-1], plugins[j]
			if a.Priority() > b.Priority() {
				break
			}
			if a.Priority() == b.Priority() && a.ID() <= b.ID() {
				break
			}
			plugins[j-1], plugins[j] = plugins[j], plugins[j-1]
		}
	}
}
