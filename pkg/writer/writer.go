// Package writer implements the Writer collaborator: the component that
// flushes a frozen FileMap to disk (spec.md §5, §9). It is the one phase
// of the pipeline that touches the filesystem, and it is the one phase
// bounded by a concurrency limit rather than run once per model.
//
// Grounded on the teacher's internal/codegen.DefaultFileWriter
// (os.MkdirAll + os.WriteFile per path), generalized from a sequential
// loop into a bounded-concurrency errgroup fan-out with atomic
// temp-file-then-rename writes and a manifest-driven skip-if-unchanged
// fast path.
package writer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/schemagen/schemagen/pkg/filemap"
)

// DefaultConcurrency is the default bound on simultaneous writes
// (spec.md §5: "bounded by a concurrency limit of 100 concurrent writes
// by default").
const DefaultConcurrency = 100

// Options configures a Writer.
type Options struct {
	// OutputDir is the root every FileMap path is joined against.
	OutputDir string
	// Concurrency bounds simultaneous in-flight writes. Zero selects
	// DefaultConcurrency.
	Concurrency int
	// DryRun skips every filesystem mutation and only reports what
	// would change, used by the CLI's --dry-run flag.
	DryRun bool
}

// Result summarizes one Flush call.
type Result struct {
	Written   []string
	Skipped   []string
	BytesOut  int64
}

// Writer flushes a frozen FileMap to disk with bounded concurrency.
type Writer struct {
	opts Options
}

// New returns a Writer for opts, defaulting Concurrency when unset.
func New(opts Options) *Writer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Writer{opts: opts}
}

// PriorDigests maps a relative path to the sha256 hex digest recorded the
// last time it was written, normally loaded from a prior run's manifest.
// Flush uses it to skip files whose contents haven't changed.
type PriorDigests map[string]string

// Flush writes every entry of fm to disk under w.opts.OutputDir. fm must
// already be frozen (spec.md §3.3): the writer never observes a FileMap
// still being mutated by emitters.
func (w *Writer) Flush(ctx context.Context, fm *filemap.FileMap, prior PriorDigests) (Result, error) {
	entries := fm.Entries()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Concurrency)

	type outcome struct {
		path    string
		skipped bool
		size    int64
	}
	outcomes := make([]outcome, len(entries))

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			digest := contentDigest(entry.Contents)
			if prior != nil && prior[entry.Path] == digest {
				outcomes[i] = outcome{path: entry.Path, skipped: true}
				return nil
			}

			if w.opts.DryRun {
				outcomes[i] = outcome{path: entry.Path, size: int64(len(entry.Contents))}
				return nil
			}

			fullPath := filepath.Join(w.opts.OutputDir, diskPath(entry.Path))
			if err := writeAtomic(fullPath, []byte(entry.Contents)); err != nil {
				return fmt.Errorf("writing %s: %w", entry.Path, err)
			}
			outcomes[i] = outcome{path: entry.Path, size: int64(len(entry.Contents))}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, o := range outcomes {
		if o.skipped {
			res.Skipped = append(res.Skipped, o.path)
			continue
		}
		res.Written = append(res.Written, o.path)
		res.BytesOut += o.size
	}
	return res, nil
}

// Digests computes the sha256 digest of every entry, for persisting into
// the next run's manifest as PriorDigests.
func Digests(fm *filemap.FileMap) map[string]string {
	entries := fm.Entries()
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Path] = contentDigest(e.Contents)
	}
	return out
}

func contentDigest(contents string) string {
	sum := sha256.Sum256([]byte(contents))
	return hex.EncodeToString(sum[:])
}

// writeAtomic creates dir, writes content to a temp file beside the
// target, and renames it into place so readers never observe a partial
// write (spec.md §5's suspension-point durability requirement).
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// dotFilePaths maps a FileMap logical path (which must satisfy the
// ^[a-z0-9]... path grammar and so cannot itself start with a dot) to the
// conventional dotted filename tooling expects on disk.
var dotFilePaths = map[string]string{
	"github/workflows/ci.yml": ".github/workflows/ci.yml",
	"env.example":              ".env.example",
	"dockerfile":               "Dockerfile",
}

// diskPath resolves the real on-disk relative path for a FileMap entry,
// translating the handful of conventional dotfiles/capitalized names the
// path grammar can't represent directly.
func diskPath(fileMapPath string) string {
	if real, ok := dotFilePaths[fileMapPath]; ok {
		return real
	}
	return fileMapPath
}
