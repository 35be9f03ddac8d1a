package plugin

import "sync"

var (
	globalRegistry *Registry
	globalMu       sync.Mutex
	registryOnce   sync.Once
)

// Global returns the process-wide plugin registry. Built-in plugin
// packages (pkg/builtin/*) register themselves into it from init(), so
// the CLI never has to import each one by name.
func Global() *Registry {
	registryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// RegisterGlobal registers a plugin into the global registry. Safe to
// call from multiple packages' init() functions.
func RegisterGlobal(p Descriptor) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	return Global().Register(p)
}
