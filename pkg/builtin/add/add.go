// Package add implements a pass-through feature plugin that writes
// operator-supplied literal content into the FileMap, adding a trailing
// newline when the content lacks one. Adapted
// from the teacher's pkg/plugins/add: the original's req.OutputPath +
// config.Content + config.Placement shape, generalized from "one file per
// generate target" to "one file per plugin config block" since schemagen
// runs one plugin instance per whole run rather than per output target.
package add

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// Plugin writes rc.Config["content"] to rc.Config["path"], appending a
// trailing newline if the content does not end with one.
type Plugin struct {
	plugin.Base
}

// New returns an add Plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.Base{IDValue: "add", VersionValue: "0.1.0"}}
}

func init() {
	if err := plugin.RegisterGlobal(New()); err != nil {
		panic(err)
	}
}

func (p *Plugin) Requirements() plugin.Requirements { return plugin.Requirements{} }

func (p *Plugin) Validate(_ context.Context, rc plugin.RequestContext) (plugin.ValidateResult, error) {
	path, _ := rc.Config["path"].(string)
	if path == "" {
		return plugin.ValidateResult{Diagnostics: []ir.Diagnostic{{
			Severity: ir.SeverityError,
			Message:  `plugin "add": config.path is required`,
		}}}, nil
	}
	return plugin.ValidateResult{}, nil
}

func (p *Plugin) Generate(_ context.Context, rc plugin.RequestContext) (plugin.Output, error) {
	path, _ := rc.Config["path"].(string)
	content, _ := rc.Config["content"].(string)
	if path == "" {
		return plugin.Output{}, fmt.Errorf(`plugin "add": config.path is required`)
	}

	placement, _ := rc.Config["placement"].(string)
	if placement == "" {
		placement = "end"
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	return plugin.Output{
		Files: []filemap.GeneratedFile{{
			Path:        path,
			Contents:    content,
			Category:    "plugin:add",
			Overridable: placement != "replace",
		}},
	}, nil
}

func (p *Plugin) HealthCheck(_ context.Context, _ plugin.RequestContext) (plugin.HealthSection, bool) {
	return plugin.HealthSection{}, false
}
