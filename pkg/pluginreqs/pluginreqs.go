// Package pluginreqs enforces a plugin's declared Requirements before the
// phase runner lets it generate: required models/enums must exist in the
// schema, every required env var is reported as an info diagnostic (whether
// it is declared in .env.example is not checked), peer plugins must be present and
// enabled, and npm dependency ranges contributed by different plugins
// must not conflict.
package pluginreqs

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// Violation is one unmet requirement, reported as a diagnostic.
type Violation struct {
	PluginID string
	Severity ir.Severity
	Message  string
}

// Check validates every enabled plugin's Requirements against the schema
// and the full set of enabled plugins. enabledIDs must be the exact set
// the run will execute, in configured order.
func Check(schema *ir.ParsedSchema, registry *plugin.Registry, enabledIDs []string) []Violation {
	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}

	var violations []Violation
	npmDeps := make(map[string]map[string]string) // pkg -> pluginID -> range

	for _, id := range enabledIDs {
		desc, ok := registry.Get(id)
		if !ok {
			violations = append(violations, Violation{
				PluginID: id,
				Severity: ir.SeverityError,
				Message:  fmt.Sprintf("plugin %q is enabled but not registered", id),
			})
			continue
		}
		reqs := desc.Requirements()

		for _, modelName := range reqs.Models {
			if _, exists := schema.ModelMap[modelName]; !exists {
				violations = append(violations, Violation{
					PluginID: id,
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("plugin %q requires model %q, which is not present in the schema", id, modelName),
				})
			}
		}
		for _, enumName := range reqs.Enums {
			if _, exists := schema.EnumMap[enumName]; !exists {
				violations = append(violations, Violation{
					PluginID: id,
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("plugin %q requires enum %q, which is not present in the schema", id, enumName),
				})
			}
		}
		for _, envVar := range reqs.EnvVars {
			violations = append(violations, Violation{
				PluginID: id,
				Severity: ir.SeverityInfo,
				Message:  fmt.Sprintf("plugin %q expects environment variable %q at runtime; it will be added to .env.example", id, envVar),
			})
		}
		for _, peerID := range reqs.PeerPlugins {
			if !enabled[peerID] {
				violations = append(violations, Violation{
					PluginID: id,
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("plugin %q requires peer plugin %q, which is not enabled", id, peerID),
				})
			}
		}
		for pkg, rangeStr := range reqs.NpmDeps {
			if npmDeps[pkg] == nil {
				npmDeps[pkg] = make(map[string]string)
			}
			npmDeps[pkg][id] = rangeStr
		}
	}

	violations = append(violations, checkNpmConflicts(npmDeps)...)
	violations = append(violations, checkPeerCycles(registry, enabledIDs)...)

	sort.SliceStable(violations, func(i, j int) bool { return violations[i].PluginID < violations[j].PluginID })
	return violations
}

// checkNpmConflicts reports a pair of plugins whose required semver ranges
// for the same dependency cannot be simultaneously satisfied, as judged by
// rangesCanOverlap's probe versions.
func checkNpmConflicts(npmDeps map[string]map[string]string) []Violation {
	var out []Violation
	for pkg, byPlugin := range npmDeps {
		if len(byPlugin) < 2 {
			continue
		}
		ids := make([]string, 0, len(byPlugin))
		for id := range byPlugin {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		constraints := make(map[string]*semver.Constraints, len(byPlugin))
		for id, rangeStr := range byPlugin {
			c, err := semver.NewConstraint(rangeStr)
			if err != nil {
				out = append(out, Violation{
					PluginID: id,
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("plugin %q declares an invalid semver range %q for dependency %q", id, rangeStr, pkg),
				})
				continue
			}
			constraints[id] = c
		}

		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				ca, okA := constraints[a]
				cb, okB := constraints[b]
				if !okA || !okB {
					continue
				}
				if !rangesCanOverlap(ca, cb, byPlugin[a], byPlugin[b]) {
					out = append(out, Violation{
						PluginID: a,
						Severity: ir.SeverityError,
						Message: fmt.Sprintf(
							"plugin %q requires %s%s and plugin %q requires %s%s: no version can satisfy both",
							a, pkg, byPlugin[a], b, pkg, byPlugin[b],
						),
					})
				}
			}
		}
	}
	return out
}

// versionPattern picks the x.y.z versions written in a range string.
var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// rangesCanOverlap does a conservative check: it walks a fixed set of
// probe versions plus every x.y.z version written in either range string
// and returns true if any one of them satisfies both constraints. This
// avoids needing a registry of actually-published versions, at the cost
// of being a heuristic rather than a full interval-intersection solver.
func rangesCanOverlap(a, b *semver.Constraints, aRange, bRange string) bool {
	candidates := []string{"0.0.1", "1.0.0", "2.0.0", "3.0.0", "4.0.0", "5.0.0", "10.0.0"}
	candidates = append(candidates, versionPattern.FindAllString(aRange+" "+bRange, -1)...)
	for _, v := range candidates {
		ver, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if a.Check(ver) && b.Check(ver) {
			return true
		}
	}
	return false
}

// checkPeerCycles reports a cycle in the peer-plugin graph (A requires B,
// B requires A), which would otherwise deadlock any priority-based
// ordering scheme.
func checkPeerCycles(registry *plugin.Registry, enabledIDs []string) []Violation {
	graph := make(map[string][]string, len(enabledIDs))
	for _, id := range enabledIDs {
		if desc, ok := registry.Get(id); ok {
			graph[id] = desc.Requirements().PeerPlugins
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(graph))
	var out []Violation

	var visit func(node string, path []string) bool
	visit = func(node string, path []string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			switch color[next] {
			case gray:
				out = append(out, Violation{
					PluginID: node,
					Severity: ir.SeverityError,
					Message:  fmt.Sprintf("peer plugin cycle detected: %s -> %s", node, next),
				})
				return true
			case white:
				if visit(next, append(path, next)) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	ids := make([]string, 0, len(graph))
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			visit(id, []string{id})
		}
	}
	return out
}
