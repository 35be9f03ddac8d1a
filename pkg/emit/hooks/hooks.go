// Package hooks implements the framework-adapter-hook half of spec.md
// §4.5.7: a per-model subscriber that binds a CoreQuery descriptor's
// stable key to a realtime update channel, applying created/updated/
// deleted mutations to the same cache keys the descriptor uses. There is
// no browser runtime in a Go target, so "framework adapter" is
// reinterpreted as a single Go subscriber type (rather than one codegen
// path per frontend framework); the first hookFrameworks entry in config
// only names the output directory (gen/sdk/{framework}/), and the
// subscriber always binds to the {model}:list channel. Grounded on the
// register/unregister/broadcast hub shape in
// 2lar-b2/backend/interfaces/websocket/hub.go, generalized from a
// per-connection fan-out hub to a per-model subscribe-exactly-once
// client.
package hooks

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
)

// Emitter renders the per-model hook file. It is a no-op (returns no
// files) for models without realtime enabled, since a hook with nothing
// to subscribe to is not worth generating.
type Emitter struct {
	Layout *layout.Layout
}

// New returns a hook Emitter.
func New(l *layout.Layout) *Emitter {
	return &Emitter{Layout: l}
}

// Emit implements phase.ModelEmitFunc.
func (e *Emitter) Emit(model *ir.ParsedModel, analysis analyzer.ModelAnalysis, cfg *genconfig.Config) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	if !analysis.Capabilities.SupportsRealtime {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("package hooks\n\n")
	b.WriteString("import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"fmt\"\n\t\"sync\"\n\n\t\"github.com/schemagen/schemagen/gen/contracts\"\n\t\"github.com/schemagen/schemagen/gen/sdk\"\n)\n\n")

	fmt.Fprintf(&b, "// %sUpdate is one realtime event delivered over the %s broadcast channel.\n", model.Name, model.Name)
	fmt.Fprintf(&b, "type %sUpdate struct {\n\tOp   string `json:\"op\"` // \"created\" | \"updated\" | \"deleted\"\n\tData contracts.Read%sDTO `json:\"data\"`\n}\n\n", model.Name, model.Name)

	fmt.Fprintf(&b, "// %sCacheMutator applies a %sUpdate to whatever cache keyed the\n", model.Name, model.Name)
	b.WriteString("// CoreQuery stable key the update's entity belongs to.\n")
	fmt.Fprintf(&b, "type %sCacheMutator func(update %sUpdate)\n\n", model.Name, model.Name)

	fmt.Fprintf(&b, "// %sHook subscribes at most once per Hook value to the %s:list channel and\n", model.Name, model.Name)
	b.WriteString("// fans incoming updates out to a cache mutator. Calling Subscribe twice\n")
	b.WriteString("// without an intervening Unsubscribe is a programmer error and returns\n")
	b.WriteString("// an error rather than silently double-subscribing.\n")
	fmt.Fprintf(&b, "type %sHook struct {\n", model.Name)
	b.WriteString("\tconn      *sdk.RealtimeConn\n")
	b.WriteString("\tmu        sync.Mutex\n")
	b.WriteString("\tsubscribed bool\n")
	b.WriteString("\tcancel    context.CancelFunc\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func New%sHook(conn *sdk.RealtimeConn) *%sHook {\n\treturn &%sHook{conn: conn}\n}\n\n", model.Name, model.Name, model.Name)

	fmt.Fprintf(&b, "func (h *%sHook) Subscribe(ctx context.Context, mutate %sCacheMutator) error {\n", model.Name, model.Name)
	b.WriteString("\th.mu.Lock()\n\tdefer h.mu.Unlock()\n")
	b.WriteString("\tif h.subscribed {\n")
	fmt.Fprintf(&b, "\t\treturn fmt.Errorf(\"%s hook already subscribed\")\n", model.NameLower)
	b.WriteString("\t}\n")
	subCtx, cancel := "subCtx", "cancel"
	fmt.Fprintf(&b, "\t%s, %s := context.WithCancel(ctx)\n", subCtx, cancel)
	b.WriteString("\th.cancel = cancel\n")
	b.WriteString("\traw := make(chan json.RawMessage, 16)\n")
	fmt.Fprintf(&b, "\tif err := h.conn.Subscribe(subCtx, %q, raw); err != nil {\n\t\tcancel()\n\t\treturn err\n\t}\n", model.NameLower+":list")
	b.WriteString("\th.subscribed = true\n")
	b.WriteString("\tgo func() {\n\t\tfor {\n\t\t\tselect {\n\t\t\tcase <-subCtx.Done():\n\t\t\t\treturn\n")
	b.WriteString("\t\t\tcase payload, ok := <-raw:\n\t\t\t\tif !ok {\n\t\t\t\t\treturn\n\t\t\t\t}\n")
	fmt.Fprintf(&b, "\t\t\t\tvar update %sUpdate\n", model.Name)
	b.WriteString("\t\t\t\tif err := json.Unmarshal(payload, &update); err != nil {\n\t\t\t\t\tcontinue\n\t\t\t\t}\n")
	b.WriteString("\t\t\t\tmutate(update)\n\t\t\t}\n\t\t}\n\t}()\n")
	b.WriteString("\treturn nil\n}\n\n")

	fmt.Fprintf(&b, "// Unsubscribe tears the subscription down; safe to call more than once.\n")
	fmt.Fprintf(&b, "func (h *%sHook) Unsubscribe() {\n", model.Name)
	b.WriteString("\th.mu.Lock()\n\tdefer h.mu.Unlock()\n")
	b.WriteString("\tif !h.subscribed {\n\t\treturn\n\t}\n")
	b.WriteString("\th.cancel()\n\th.subscribed = false\n}\n")

	file := filemap.GeneratedFile{
		Path:     e.Layout.PathFor(layout.KindSDKFrameworkHook, model.NameLower),
		Contents: b.String(),
		Category: "hook",
	}
	return []filemap.GeneratedFile{file}, nil
}
