// Package phase implements the Phase Runner: an ordered, named sequence
// of phases executed against one shared PhaseContext, providing a single
// point for cross-cutting concerns — logging, timing, error aggregation,
// rollback, mode selection. Adapted from the teacher's
// internal/codegen.Generator, whose per-target plugin loop and
// mergeGeneratedContent/applyPlacement logic is the ancestor of this
// package's per-phase execution and FileMap-merge semantics, generalized
// from a single "generate" step into the full 16-phase pipeline spec.md
// §4.3 names.
package phase

import (
	"sync"
	"time"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// Cache is an open-ended per-phase cache with string keys, used to pass
// data produced by one phase to a later phase without threading it
// through every intervening phase's signature.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func newCache() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

// Set stores a value under key.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Get retrieves a value by key.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Delete removes a key, used by rollback.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Context is the shared mutable record threaded through every phase.
type Context struct {
	Schema   *ir.ParsedSchema
	Analysis *analyzer.Cache
	Config   *genconfig.Config
	Plugins  *plugin.Registry

	Files  *filemap.FileMap
	Errors *filemap.ErrorCollector
	Cache  *Cache

	Manifest filemap.Manifest

	// Accumulated across GeneratePlugins; merged into the scaffold phase's
	// app bootstrap, route table, and .env.example.
	PluginRoutes     []plugin.RouteSpec
	PluginMiddleware []plugin.MiddlewareSpec
	PluginEnvVars    map[string]string
	PluginDeps       map[string]string
	PluginHealth     []plugin.HealthSection
	pluginVersions   map[string]string

	toolVersion string
}

// New builds a Context ready for the runner. toolVersion is stamped into
// the manifest (spec.md §6's "toolVersion" field).
func New(schema *ir.ParsedSchema, analysis *analyzer.Cache, cfg *genconfig.Config, plugins *plugin.Registry, toolVersion string) *Context {
	return &Context{
		Schema:         schema,
		Analysis:       analysis,
		Config:         cfg,
		Plugins:        plugins,
		Files:          filemap.New(),
		Errors:         filemap.NewErrorCollector(),
		Cache:          newCache(),
		PluginEnvVars:  map[string]string{},
		PluginDeps:     map[string]string{},
		pluginVersions: map[string]string{},
		toolVersion:    toolVersion,
	}
}

// recordTiming appends one PhaseTiming entry to the manifest.
func (c *Context) recordTiming(phaseName string, d time.Duration) {
	c.Manifest.PhaseTimings = append(c.Manifest.PhaseTimings, filemap.PhaseTiming{
		Phase:    phaseName,
		Duration: d,
	})
}

// finalize computes the manifest's remaining fields once the run
// completes: schema hash, tool version, file count, diagnostics summary.
func (c *Context) finalize() {
	c.Manifest.SchemaHash = c.Schema.Fingerprint()
	c.Manifest.ToolVersion = c.toolVersion
	c.Manifest.PluginVersions = c.pluginVersions
	c.Manifest.FileCount = c.Files.Len()
	c.Manifest.DiagnosticsSummary = c.Errors.Summary()
}
