package framework

import "fmt"

// ByName resolves the configured "framework" generator-config value
// (spec.md §6: middleware-chain | plugin-register) to a concrete Adapter.
func ByName(name string) (Adapter, error) {
	switch name {
	case "", "middleware-chain":
		return MiddlewareChainAdapter{}, nil
	case "plugin-register":
		return PluginRegisterAdapter{}, nil
	default:
		return nil, fmt.Errorf("framework: unknown dialect %q (expected middleware-chain or plugin-register)", name)
	}
}
