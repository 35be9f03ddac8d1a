// Package storage implements the built-in "storage" feature plugin
// (SPEC_FULL.md §6): a file-upload controller and a local-disk-backed
// storage service for every model carrying a file-upload-shaped field.
// There is no analyzer-level "fileField" special-field concept (deliberately
// — the core Validator/Analyzer rule set is fixed), so this plugin runs its
// own naming-convention scan over the names of each model's scalar fields,
// mirroring the lowercase-name-matching style
// analyzer.detectSpecialFields already uses for slug/softDelete detection.
// Grounded on pkg/emit/controller's framework-adapter-driven handler shape
// for the upload route, generalized to a fixed single route rather than a
// per-model CRUD set since uploads are a single action, not a resource.
package storage

import (
	"context"
	"strings"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

var fileFieldNames = map[string]bool{
	"file": true, "fileurl": true, "filekey": true, "attachment": true,
	"avatar": true, "avatarurl": true, "image": true, "imageurl": true,
}

// fileField is a detected upload-shaped field on a model.
type fileField struct {
	Model string
	Field string
}

func detectFileFields(schema *ir.ParsedSchema) []fileField {
	var out []fileField
	for _, m := range schema.Models {
		for i := range m.Fields {
			f := &m.Fields[i]
			if f.Kind == ir.KindScalar && fileFieldNames[f.NameLower] {
				out = append(out, fileField{Model: m.Name, Field: f.Name})
			}
		}
	}
	return out
}

// Plugin is the storage feature plugin.
type Plugin struct {
	plugin.Base
}

// New returns a storage Plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.Base{IDValue: "storage", VersionValue: "0.1.0", PriorityValue: 5}}
}

func init() {
	if err := plugin.RegisterGlobal(New()); err != nil {
		panic(err)
	}
}

func (p *Plugin) Requirements() plugin.Requirements {
	return plugin.Requirements{EnvVars: []string{"STORAGE_ROOT"}}
}

// Validate is a no-op: a schema with no file-upload-shaped fields simply
// yields no generated files in Generate, not an error.
func (p *Plugin) Validate(_ context.Context, _ plugin.RequestContext) (plugin.ValidateResult, error) {
	return plugin.ValidateResult{}, nil
}

func (p *Plugin) Generate(_ context.Context, rc plugin.RequestContext) (plugin.Output, error) {
	fields := detectFileFields(rc.Schema)
	if len(fields) == 0 {
		return plugin.Output{}, nil
	}

	return plugin.Output{
		Files: []filemap.GeneratedFile{{
			Path:     "gen/storage/store.go",
			Contents: renderStore(),
			Category: "plugin:storage",
		}, {
			Path:     "gen/storage/handler.go",
			Contents: renderHandler(fields),
			Category: "plugin:storage",
		}},
		Routes: []plugin.RouteSpec{
			{Method: "POST", Path: "/api/uploads", HandlerName: "storage.UploadHandler"},
		},
		EnvVars: map[string]string{"STORAGE_ROOT": "./uploads"},
	}, nil
}

func (p *Plugin) HealthCheck(_ context.Context, rc plugin.RequestContext) (plugin.HealthSection, bool) {
	n := len(detectFileFields(rc.Schema))
	status := "ok"
	if n == 0 {
		status = "idle"
	}
	return plugin.HealthSection{Name: "storage", Status: status}, true
}

func renderStore() string {
	return `package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes uploaded content under a root directory keyed by a random
// object key, the same shape a bucket-backed implementation would expose
// behind this same interface.
type Store struct {
	root string
}

// NewStore returns a Store rooted at STORAGE_ROOT (falling back to
// ./uploads when unset).
func NewStore() *Store {
	root := os.Getenv("STORAGE_ROOT")
	if root == "" {
		root = "./uploads"
	}
	return &Store{root: root}
}

// Put streams src to a freshly generated object key under root and
// returns that key.
func (s *Store) Put(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("storage: creating root: %w", err)
	}
	key, err := randomKey()
	if err != nil {
		return "", err
	}
	if ext != "" {
		key += ext
	}
	dst, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", fmt.Errorf("storage: creating object: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("storage: writing object: %w", err)
	}
	return key, nil
}

// URL resolves a stored key to the path callers should store as the
// model's file-field value.
func (s *Store) URL(key string) string {
	return "/uploads/" + key
}

func randomKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
`
}

func renderHandler(fields []fileField) string {
	var b strings.Builder
	b.WriteString(`package storage

import (
	"encoding/json"
	"net/http"
)

// modelFields documents every model field this upload handler can
// populate, for operator reference.
var modelFields = map[string]string{
`)
	for _, f := range fields {
		b.WriteString("\t\"" + f.Model + "\": \"" + f.Field + "\",\n")
	}
	b.WriteString(`}

const maxUploadBytes = 32 << 20 // 32MiB

type uploadResponse struct {
	Key string ` + "`json:\"key\"`" + `
	URL string ` + "`json:\"url\"`" + `
}

// UploadHandler accepts a single multipart "file" part and stores it,
// returning the object key and resolved URL the caller should persist
// into the owning model's file field.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "request too large or malformed", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	store := NewStore()
	ext := extOf(header.Filename)
	key, err := store.Put(file, ext)
	if err != nil {
		http.Error(w, "could not store file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploadResponse{Key: key, URL: store.URL(key)})
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}
`)
	return b.String()
}
