// Package genconfig is the normalized Generator Config the whole pipeline
// reads: target framework dialect, feature toggles, plugin list+configs,
// output layout, registry mode, field-mapping overrides. Adapted from the
// teacher's pkg/config.Config, trimmed of GraphQL-document/schema-source
// concerns (schema discovery is out of scope — the core consumes an
// already-built IR) and expanded with the knobs spec.md §6 names.
package genconfig

import "fmt"

// PluginSpec is one entry of the ordered plugin list.
type PluginSpec struct {
	ID     string                 `yaml:"id"`
	Version string                `yaml:"version,omitempty"`
	Config map[string]interface{} `yaml:"config,omitempty"`
}

// FieldMappings carries explicit concept mappings consumed by UI/admin
// scaffolding emitters (spec.md §6).
type FieldMappings struct {
	Models              map[string]string            `yaml:"models,omitempty"`
	GlobalFieldOverrides map[string]string            `yaml:"globalFieldOverrides,omitempty"`
	ModelFieldOverrides  map[string]map[string]string `yaml:"modelFieldOverrides,omitempty"`
	Ignore              []string                      `yaml:"ignore,omitempty"`
	MinConfidence       int                            `yaml:"minConfidence,omitempty"`
}

// CountStrategy selects how Service.list() computes its total count.
type CountStrategy string

const (
	CountExact    CountStrategy = "exact"
	CountEstimate CountStrategy = "estimate"
)

// Config is the full normalized generator config, spec.md §6.
type Config struct {
	// SchemaPath is the DMMF-shaped JSON document Build consumes (spec.md
	// §3: "already-normalized upstream DMMF-shaped input"). Resolved
	// relative to the config file's own directory when not absolute.
	SchemaPath string `yaml:"schemaPath"`
	// OutputDir is where the Writer flushes the FileMap, relative to the
	// working directory when not absolute.
	OutputDir string `yaml:"outputDir"`

	Framework          string            `yaml:"framework"`          // "middleware-chain" | "plugin-register"
	UseRegistry        bool              `yaml:"useRegistry"`
	HookFrameworks     []string          `yaml:"hookFrameworks"`
	Plugins            []PluginSpec      `yaml:"plugins"`
	FieldMappings      FieldMappings     `yaml:"fieldMappings"`
	PluralOverrides    map[string]string `yaml:"pluralOverrides"`
	Strict             bool              `yaml:"strict"`
	FreezeIR           bool              `yaml:"freezeIR"`
	MaxTake            int               `yaml:"maxTake"`
	CountStrategy      CountStrategy     `yaml:"countStrategy"`
	OutputLayoutVersion int              `yaml:"outputLayoutVersion"`
	ModuleSuffix       bool              `yaml:"moduleSuffix"`
	RootImportPath     string            `yaml:"rootImportPath"`
	SlugFormatHint     bool              `yaml:"slugFormatHint"`
}

// Default returns a Config with every spec.md-documented default applied:
// middleware-chain dialect, legacy (non-registry) phase layout, strict
// off, IR frozen, maxTake 100, exact counting, layout v1.
func Default() Config {
	return Config{
		Framework:           "middleware-chain",
		UseRegistry:         false,
		HookFrameworks:      nil,
		Plugins:             nil,
		PluralOverrides:     map[string]string{},
		Strict:              false,
		FreezeIR:            true,
		MaxTake:             100,
		CountStrategy:       CountExact,
		OutputLayoutVersion: 1,
		ModuleSuffix:        false,
	}
}

// applyDefaults fills zero-valued fields that must never be left empty,
// mirroring the teacher's Config.setDefaults step.
func (c *Config) applyDefaults() {
	if c.Framework == "" {
		c.Framework = "middleware-chain"
	}
	if c.MaxTake == 0 {
		c.MaxTake = 100
	}
	if c.CountStrategy == "" {
		c.CountStrategy = CountExact
	}
	if c.OutputLayoutVersion == 0 {
		c.OutputLayoutVersion = 1
	}
	if c.PluralOverrides == nil {
		c.PluralOverrides = map[string]string{}
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// Validate checks the config is internally consistent, mirroring the
// teacher's Config.Validate.
func (c *Config) Validate() error {
	if c.SchemaPath == "" {
		return fmt.Errorf("genconfig: schemaPath is required")
	}

	switch c.Framework {
	case "middleware-chain", "plugin-register":
	default:
		return fmt.Errorf("genconfig: framework must be \"middleware-chain\" or \"plugin-register\", got %q", c.Framework)
	}

	switch c.CountStrategy {
	case CountExact, CountEstimate:
	default:
		return fmt.Errorf("genconfig: countStrategy must be \"exact\" or \"estimate\", got %q", c.CountStrategy)
	}

	if c.MaxTake <= 0 {
		return fmt.Errorf("genconfig: maxTake must be positive, got %d", c.MaxTake)
	}

	if c.OutputLayoutVersion != 1 {
		return fmt.Errorf("genconfig: unsupported outputLayoutVersion %d (only 1 is defined)", c.OutputLayoutVersion)
	}

	seen := make(map[string]bool, len(c.Plugins))
	for _, p := range c.Plugins {
		if p.ID == "" {
			return fmt.Errorf("genconfig: plugin entry missing id")
		}
		if seen[p.ID] {
			return fmt.Errorf("genconfig: plugin %q listed more than once", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}

// PluginIDs returns the configured plugin IDs in configured order.
func (c *Config) PluginIDs() []string {
	out := make([]string, len(c.Plugins))
	for i, p := range c.Plugins {
		out[i] = p.ID
	}
	return out
}

// PluginConfig returns the config block for a given plugin id, or nil.
func (c *Config) PluginConfig(id string) map[string]interface{} {
	for _, p := range c.Plugins {
		if p.ID == id {
			return p.Config
		}
	}
	return nil
}
