package scaffold

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/gotype"
	"github.com/schemagen/schemagen/pkg/ir"
)

// renderMemStore renders gen/memstore/{model}.go: a concurrency-safe,
// process-local implementation of the {Model}Store interface, wired as
// the app bootstrap's default store so a generated project runs without
// a database configured. Field copying goes through encoding/json rather
// than per-field assignment, since Create/UpdateDTO and ReadDTO already
// carry matching json tags (gen/validators' request types and gen/dto's
// ReadDTO are both derived from the same field set) — the same trick
// avoids per-field codegen that model schema evolution would otherwise
// force through every Store implementation.
func renderMemStore(model *ir.ParsedModel) (string, error) {
	idType, err := gotype.Resolve(model.Name, model.IDField)
	if err != nil {
		return "", err
	}
	idType = strings.TrimPrefix(idType, "*")
	newID := fmt.Sprintf("%s(s.nextID)", idType)
	if idType == "string" {
		newID = `fmt.Sprintf("%d", s.nextID)`
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Package memstore provides the in-memory %sStore default every generated\n", model.Name)
	b.WriteString("// service is constructed against until a real store is wired in.\n")
	b.WriteString("package memstore\n\n")
	b.WriteString("import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"fmt\"\n\t\"sync\"\n\n\t\"github.com/schemagen/schemagen/gen/apierrors\"\n\t\"github.com/schemagen/schemagen/gen/contracts\"\n)\n\n")

	fmt.Fprintf(&b, "// %sMemStore implements services.%sStore over a process-local map.\n", model.Name, model.Name)
	fmt.Fprintf(&b, "type %sMemStore struct {\n\tmu     sync.RWMutex\n\tbyID   map[%s]contracts.Read%sDTO\n\tnextID int\n}\n\n", model.Name, idType, model.Name)
	fmt.Fprintf(&b, "func New%sMemStore() *%sMemStore {\n\treturn &%sMemStore{byID: map[%s]contracts.Read%sDTO{}}\n}\n\n", model.Name, model.Name, model.Name, idType, model.Name)

	fmt.Fprintf(&b, "func (s *%sMemStore) List(ctx context.Context, q contracts.Query%sDTO) ([]contracts.Read%sDTO, int, error) {\n", model.Name, model.Name, model.Name)
	b.WriteString("\ts.mu.RLock()\n\tdefer s.mu.RUnlock()\n")
	fmt.Fprintf(&b, "\titems := make([]contracts.Read%sDTO, 0, len(s.byID))\n", model.Name)
	b.WriteString("\tfor _, v := range s.byID {\n\t\titems = append(items, v)\n\t}\n")
	b.WriteString("\ttotal := len(items)\n")
	b.WriteString("\tif q.Skip != nil && *q.Skip < len(items) {\n\t\titems = items[*q.Skip:]\n\t} else if q.Skip != nil {\n\t\titems = nil\n\t}\n")
	b.WriteString("\tif q.Take != nil && *q.Take < len(items) {\n\t\titems = items[:*q.Take]\n\t}\n")
	b.WriteString("\treturn items, total, nil\n}\n\n")

	fmt.Fprintf(&b, "func (s *%sMemStore) Get(ctx context.Context, id %s) (*contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name)
	b.WriteString("\ts.mu.RLock()\n\tdefer s.mu.RUnlock()\n")
	b.WriteString("\tv, ok := s.byID[id]\n\tif !ok {\n")
	fmt.Fprintf(&b, "\t\treturn nil, fmt.Errorf(\"%%w: %s %%v\", apierrors.ErrNotFound, id)\n\t}\n", model.Name)
	b.WriteString("\treturn &v, nil\n}\n\n")

	fmt.Fprintf(&b, "func (s *%sMemStore) Create(ctx context.Context, in contracts.Create%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, model.Name, model.Name)
	b.WriteString("\ts.mu.Lock()\n\tdefer s.mu.Unlock()\n")
	fmt.Fprintf(&b, "\tvar v contracts.Read%sDTO\n", model.Name)
	b.WriteString("\traw, err := json.Marshal(in)\n\tif err != nil {\n\t\treturn v, err\n\t}\n")
	fmt.Fprintf(&b, "\tif err := json.Unmarshal(raw, &v); err != nil {\n\t\treturn v, err\n\t}\n")
	b.WriteString("\ts.nextID++\n")
	fmt.Fprintf(&b, "\tid := %s\n", newID)
	fmt.Fprintf(&b, "\tv.%s = id\n", idFieldGoName(model))
	b.WriteString("\ts.byID[id] = v\n\treturn v, nil\n}\n\n")

	fmt.Fprintf(&b, "func (s *%sMemStore) Update(ctx context.Context, id %s, in contracts.Update%sDTO) (contracts.Read%sDTO, error) {\n", model.Name, idType, model.Name, model.Name)
	b.WriteString("\ts.mu.Lock()\n\tdefer s.mu.Unlock()\n")
	b.WriteString("\tv, ok := s.byID[id]\n\tif !ok {\n")
	fmt.Fprintf(&b, "\t\treturn contracts.Read%sDTO{}, fmt.Errorf(\"%%w: %s %%v\", apierrors.ErrNotFound, id)\n\t}\n", model.Name, model.Name)
	b.WriteString("\traw, err := json.Marshal(in)\n\tif err != nil {\n\t\treturn v, err\n\t}\n")
	b.WriteString("\tif err := json.Unmarshal(raw, &v); err != nil {\n\t\treturn v, err\n\t}\n")
	b.WriteString("\ts.byID[id] = v\n\treturn v, nil\n}\n\n")

	fmt.Fprintf(&b, "func (s *%sMemStore) Remove(ctx context.Context, id %s) (bool, error) {\n", model.Name, idType)
	b.WriteString("\ts.mu.Lock()\n\tdefer s.mu.Unlock()\n")
	b.WriteString("\tif _, ok := s.byID[id]; !ok {\n\t\treturn false, nil\n\t}\n")
	b.WriteString("\tdelete(s.byID, id)\n\treturn true, nil\n}\n")

	return b.String(), nil
}

func idFieldGoName(model *ir.ParsedModel) string {
	name := model.IDField.Name
	if name == "" {
		return "ID"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
