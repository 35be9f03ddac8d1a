package filemap

import "time"

// PhaseTiming records one phase's wall-clock duration.
type PhaseTiming struct {
	Phase    string
	Duration time.Duration
}

// Manifest is emitted alongside the FileMap, per spec.md §6: schema hash,
// tool version, plugin versions, phase timings, file count, diagnostics
// summary. The writer collaborator uses it to skip unchanged files; tests
// use it to assert run shape.
type Manifest struct {
	SchemaHash          string
	ToolVersion         string
	PluginVersions      map[string]string
	PhaseTimings        []PhaseTiming
	FileCount           int
	DiagnosticsSummary  map[Severity]int
}
