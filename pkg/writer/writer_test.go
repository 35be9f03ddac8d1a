package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/filemap"
)

func buildFileMap(t *testing.T, files map[string]string) *filemap.FileMap {
	t.Helper()
	fm := filemap.New()
	for path, contents := range files {
		require.NoError(t, fm.Put(filemap.GeneratedFile{Path: path, Contents: contents}, false))
	}
	fm.Freeze()
	return fm
}

func TestFlush_WritesEveryEntry(t *testing.T) {
	dir := t.TempDir()
	fm := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n",
		"src/config.go":         "package src\n",
	})

	w := New(Options{OutputDir: dir})
	result, err := w.Flush(context.Background(), fm, nil)
	require.NoError(t, err)
	require.Len(t, result.Written, 2)
	require.Empty(t, result.Skipped)

	got, err := os.ReadFile(filepath.Join(dir, "gen/contracts/user.go"))
	require.NoError(t, err)
	require.Equal(t, "package contracts\n", string(got))
}

func TestFlush_SkipsUnchangedContentViaPriorDigests(t *testing.T) {
	dir := t.TempDir()
	fm := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n",
	})

	prior := Digests(fm)

	w := New(Options{OutputDir: dir})
	result, err := w.Flush(context.Background(), fm, prior)
	require.NoError(t, err)
	require.Empty(t, result.Written)
	require.Equal(t, []string{"gen/contracts/user.go"}, result.Skipped)

	_, err = os.Stat(filepath.Join(dir, "gen/contracts/user.go"))
	require.True(t, os.IsNotExist(err), "skipped file must not be written when nothing changed")
}

func TestFlush_RewritesWhenContentChanges(t *testing.T) {
	dir := t.TempDir()
	fm := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n",
	})
	prior := Digests(fm)

	fm2 := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n\n// changed\n",
	})

	w := New(Options{OutputDir: dir})
	result, err := w.Flush(context.Background(), fm2, prior)
	require.NoError(t, err)
	require.Equal(t, []string{"gen/contracts/user.go"}, result.Written)
}

func TestFlush_DryRunTouchesNoFiles(t *testing.T) {
	dir := t.TempDir()
	fm := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n",
	})

	w := New(Options{OutputDir: dir, DryRun: true})
	result, err := w.Flush(context.Background(), fm, nil)
	require.NoError(t, err)
	require.Len(t, result.Written, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFlush_RespectsConcurrencyLimitAndWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	files := make(map[string]string, 20)
	for i := 0; i < 20; i++ {
		files[filepath.ToSlash(filepath.Join("gen", "model", string(rune('a'+i))+".go"))] = "package model\n"
	}
	fm := buildFileMap(t, files)

	w := New(Options{OutputDir: dir, Concurrency: 4})
	result, err := w.Flush(context.Background(), fm, nil)
	require.NoError(t, err)
	require.Len(t, result.Written, 20)
}

func TestFlush_CancelledContextStopsEarly(t *testing.T) {
	dir := t.TempDir()
	fm := buildFileMap(t, map[string]string{
		"gen/contracts/user.go": "package contracts\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(Options{OutputDir: dir})
	_, err := w.Flush(ctx, fm, nil)
	require.Error(t, err)
}
