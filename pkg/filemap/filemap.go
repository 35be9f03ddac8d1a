// Package filemap implements the FileMap and ErrorCollector sinks shared
// across the phase runner and every emitter (spec.md §3.1, §5). Both types
// are safe for concurrent use: within a single phase, work across models
// may run in parallel, and these are the only two sinks that parallel
// workers touch.
package filemap

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// pathPattern is the path grammar from spec.md §6:
// ^[a-z0-9][a-z0-9/_.-]*$
var pathPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9/_.-]*$`)

// GeneratedFile is one entry of the FileMap.
type GeneratedFile struct {
	Path        string
	Contents    string
	Category    string
	Overridable bool
}

// FileMap is the ordered path -> contents mapping the pipeline builds up.
// Insertion order is not semantically meaningful, but Entries() returns a
// deterministic, path-sorted view so two runs over identical input always
// produce byte-identical serialized output (spec.md §8 determinism law).
type FileMap struct {
	mu      sync.Mutex
	entries map[string]GeneratedFile
	frozen  bool
}

// New returns an empty FileMap.
func New() *FileMap {
	return &FileMap{entries: make(map[string]GeneratedFile)}
}

// ErrPathInvalid is returned when a path fails the path grammar.
type ErrPathInvalid struct{ Path string }

func (e *ErrPathInvalid) Error() string {
	return fmt.Sprintf("filemap: path %q does not match the path grammar", e.Path)
}

// ErrPathCollision is returned when a second emitter writes an existing
// path without override=true, or the prior entry is not overridable.
type ErrPathCollision struct {
	Path            string
	PriorOverridable bool
	NewOverride      bool
}

func (e *ErrPathCollision) Error() string {
	return fmt.Sprintf("filemap: path %q already present (priorOverridable=%v, override=%v)", e.Path, e.PriorOverridable, e.NewOverride)
}

// ErrFrozen is returned by Put once the phase runner has entered
// WriteFiles/Finalize and frozen the map.
var ErrFrozen = fmt.Errorf("filemap: file map is frozen")

func normalize(contents string) string {
	s := strings.ReplaceAll(contents, "\r\n", "\n")
	if s == "" {
		return "\n"
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// Put inserts or overrides a file. override must be true to replace an
// existing entry, and the existing entry must itself be Overridable, per
// spec.md §3.2's FileMap uniqueness invariant.
func (fm *FileMap) Put(file GeneratedFile, override bool) error {
	if !pathPattern.MatchString(file.Path) || strings.Contains(file.Path, "..") || strings.HasPrefix(file.Path, "/") {
		return &ErrPathInvalid{Path: file.Path}
	}

	file.Contents = normalize(file.Contents)

	fm.mu.Lock()
	defer fm.mu.Unlock()

	if fm.frozen {
		return ErrFrozen
	}

	if prior, exists := fm.entries[file.Path]; exists {
		if !override || !prior.Overridable {
			return &ErrPathCollision{Path: file.Path, PriorOverridable: prior.Overridable, NewOverride: override}
		}
	}

	fm.entries[file.Path] = file
	return nil
}

// MustPut is Put with override=false, panicking on error. Emitters use
// this for their own first write to a path they own exclusively.
func (fm *FileMap) MustPut(path, contents, category string) {
	if err := fm.Put(GeneratedFile{Path: path, Contents: contents, Category: category}, false); err != nil {
		panic(err)
	}
}

// Get returns an entry by path, used only by tests and the Finalize phase;
// emitters must never read from the FileMap during emission (spec.md §5).
func (fm *FileMap) Get(path string) (GeneratedFile, bool) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	f, ok := fm.entries[path]
	return f, ok
}

// Delete removes a path, used by phase rollback to clear partial entries.
func (fm *FileMap) Delete(path string) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	delete(fm.entries, path)
}

// Len returns the number of entries.
func (fm *FileMap) Len() int {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return len(fm.entries)
}

// Freeze prevents further mutation, entered when the phase runner reaches
// WriteFiles (spec.md §3.3).
func (fm *FileMap) Freeze() {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.frozen = true
}

// Entries returns a deterministic, path-sorted snapshot.
func (fm *FileMap) Entries() []GeneratedFile {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	out := make([]GeneratedFile, 0, len(fm.entries))
	for _, f := range fm.entries {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns every path currently present, sorted.
func (fm *FileMap) Paths() []string {
	entries := fm.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}
