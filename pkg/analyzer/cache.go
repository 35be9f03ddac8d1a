package analyzer

import (
	"fmt"
	"sync"

	"github.com/schemagen/schemagen/pkg/ir"
)

// Cache is the modelName -> ModelAnalysis map spec.md §3 calls the Analysis
// Cache: computed once per run, read-only thereafter, invalidated only by
// a schema fingerprint change. It is safe for concurrent reads after Build
// completes; Build itself may run per-model analysis concurrently since
// Analyze is pure.
type Cache struct {
	schemaFingerprint string
	entries           map[string]ModelAnalysis
	mu                sync.RWMutex
	built             bool
}

// NewCache returns an empty, unbuilt cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]ModelAnalysis)}
}

// Build computes every model's analysis exactly once. Calling Build twice
// on an already-built cache with the same schema fingerprint is a no-op;
// a changed fingerprint re-derives every entry.
func (c *Cache) Build(schema *ir.ParsedSchema) []Diagnostic {
	fp := schema.Fingerprint()

	c.mu.Lock()
	if c.built && c.schemaFingerprint == fp {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	var allDiags []Diagnostic
	entries := make(map[string]ModelAnalysis, len(schema.Models))
	for i := range schema.Models {
		m := &schema.Models[i]
		analysis, diags := Analyze(m, schema)
		entries[m.Name] = analysis
		allDiags = append(allDiags, diags...)
	}

	c.mu.Lock()
	c.entries = entries
	c.schemaFingerprint = fp
	c.built = true
	c.mu.Unlock()

	return allDiags
}

// Get returns the cached analysis for modelName. It panics if Build has
// not run, matching spec.md §3.2's invariant that the cache is computed
// exactly once per run before any emitter reads it — a read before Build
// is a programming error in the pipeline, not a recoverable condition.
func (c *Cache) Get(modelName string) ModelAnalysis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.built {
		panic("analyzer: Cache.Get called before Build")
	}
	a, ok := c.entries[modelName]
	if !ok {
		panic(fmt.Sprintf("analyzer: no analysis for model %q", modelName))
	}
	return a
}

// Lookup is the non-panicking variant of Get.
func (c *Cache) Lookup(modelName string) (ModelAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.entries[modelName]
	return a, ok
}

// All returns every cached analysis, keyed by model name. The returned map
// is a copy; mutating it does not affect the cache.
func (c *Cache) All() map[string]ModelAnalysis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]ModelAnalysis, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
