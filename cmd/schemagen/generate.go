package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schemagen/schemagen/pkg/analyzer"
	_ "github.com/schemagen/schemagen/pkg/builtin/add"
	_ "github.com/schemagen/schemagen/pkg/builtin/auth"
	_ "github.com/schemagen/schemagen/pkg/builtin/metrics"
	_ "github.com/schemagen/schemagen/pkg/builtin/realtime"
	_ "github.com/schemagen/schemagen/pkg/builtin/storage"
	"github.com/schemagen/schemagen/pkg/emit/admin"
	"github.com/schemagen/schemagen/pkg/emit/controller"
	"github.com/schemagen/schemagen/pkg/emit/dto"
	"github.com/schemagen/schemagen/pkg/emit/hooks"
	"github.com/schemagen/schemagen/pkg/emit/openapi"
	"github.com/schemagen/schemagen/pkg/emit/registry"
	"github.com/schemagen/schemagen/pkg/emit/route"
	"github.com/schemagen/schemagen/pkg/emit/scaffold"
	"github.com/schemagen/schemagen/pkg/emit/sdk"
	"github.com/schemagen/schemagen/pkg/emit/service"
	"github.com/schemagen/schemagen/pkg/emit/test"
	"github.com/schemagen/schemagen/pkg/emit/validatorschema"
	"github.com/schemagen/schemagen/pkg/framework"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/phase"
	"github.com/schemagen/schemagen/pkg/plugin"
	"github.com/schemagen/schemagen/pkg/pluginreqs"
	"github.com/schemagen/schemagen/pkg/pluralize"
	"github.com/schemagen/schemagen/pkg/writer"
)

// runGenerate wires the frozen IR, the normalized config, every emitter,
// and the phase list into one Runner, then flushes the resulting FileMap
// to disk. Grounded on cmd/graphql-go-gen/generate.go's Generator.Generate,
// generalized from "load schema + documents, generate per target" into
// "load IR, build analysis, run the phase list once".
func runGenerate(configPath string, cfg *genconfig.Config, verbose, quiet bool) error {
	ctx := context.Background()

	schemaPath := cfg.SchemaPath
	if !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(filepath.Dir(configPath), schemaPath)
	}

	if !quiet {
		fmt.Printf("Loading schema IR from: %s\n", schemaPath)
	}

	schema, err := loadSchema(schemaPath, cfg.FreezeIR)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	if !quiet {
		fmt.Printf("Schema loaded (%d models, fingerprint %s)\n", len(schema.Models), schema.Fingerprint())
	}

	cache := analyzer.NewCache()
	if diags := cache.Build(schema); len(diags) > 0 && verbose {
		for _, d := range diags {
			fmt.Printf("  analyzer: %s\n", d.Message)
		}
	}

	pluginRegistry := plugin.Global()

	if violations := pluginreqs.Check(schema, pluginRegistry, cfg.PluginIDs()); len(violations) > 0 {
		for _, v := range violations {
			if !quiet {
				fmt.Printf("  plugin %s: [%s] %s\n", v.PluginID, v.Severity, v.Message)
			}
			if v.Severity == ir.SeverityError || v.Severity == ir.SeverityFatal {
				return fmt.Errorf("plugin requirements unmet: %s: %s", v.PluginID, v.Message)
			}
		}
	}

	phaseCtx := phase.New(schema, cache, cfg, pluginRegistry, version)

	deps, err := buildDependencies(cfg)
	if err != nil {
		return fmt.Errorf("wiring emitters: %w", err)
	}

	runner := phase.NewRunner(phase.ForMode(cfg.UseRegistry, deps))

	result, err := runner.Run(ctx, phaseCtx)
	if err != nil {
		return fmt.Errorf("phase %q aborted: %w", result.AbortedPhase, err)
	}

	if !quiet {
		fmt.Printf("Generated %d files\n", phaseCtx.Files.Len())
		if summary := phaseCtx.Errors.Summary(); len(summary) > 0 {
			for sev, n := range summary {
				fmt.Printf("  %s: %d\n", sev, n)
			}
		}
	}

	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(filepath.Dir(configPath), outputDir)
	}

	w := writer.New(writer.Options{OutputDir: outputDir})
	wres, err := w.Flush(ctx, phaseCtx.Files, loadPriorDigests(outputDir))
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !quiet {
		fmt.Printf("Wrote %d files, skipped %d unchanged, %d bytes\n", len(wres.Written), len(wres.Skipped), wres.BytesOut)
	}

	return writeManifest(outputDir, phaseCtx, writer.Digests(phaseCtx.Files))
}

// loadSchema reads the DMMF-shaped JSON document at path and builds the
// frozen ParsedSchema the pipeline runs against.
func loadSchema(path string, freeze bool) (*ir.ParsedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var raw ir.RawSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing schema JSON: %w", err)
	}

	opts := ir.NewBuildOptions()
	opts.Freeze = freeze
	schema, err := ir.Build(raw, opts)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// buildDependencies constructs every emitter the config's chosen dialect
// needs and wires them into a phase.Dependencies. The CI global phase is
// left nil because the Scaffold emitter already folds CI/Docker/env-example
// generation into its own Emit (see DESIGN.md).
func buildDependencies(cfg *genconfig.Config) (phase.Dependencies, error) {
	adapter, err := framework.ByName(cfg.Framework)
	if err != nil {
		return phase.Dependencies{}, err
	}

	l := layout.New("go", cfg.ModuleSuffix, hookFrameworkOf(cfg))
	plr := pluralize.New(cfg.PluralOverrides)
	moduleName := cfg.RootImportPath
	if moduleName == "" {
		moduleName = "github.com/schemagen/schemagen"
	}

	dtoEmitter := dto.New(l)
	validatorEmitter := validatorschema.New(l, cfg.SlugFormatHint)
	serviceEmitter := service.New(l)
	controllerEmitter := controller.New(l, adapter)
	routeEmitter := route.New(l, adapter, plr)
	testEmitter := test.New(l)
	hooksEmitter := hooks.New(l)
	clientEmitter := sdk.NewClient(l, plr)
	coreQueryEmitter := sdk.NewCoreQuery(l, plr)
	baseEmitter := sdk.NewBase(l)
	openapiEmitter := openapi.New(l, plr, "", "", "")
	scaffoldEmitter := scaffold.New(l, plr, moduleName)
	adminEmitter := admin.New(l)

	deps := phase.Dependencies{
		DTO:        dtoEmitter.Emit,
		Validator:  validatorEmitter.Emit,
		Service:    serviceEmitter.Emit,
		Controller: controllerEmitter.Emit,
		Route:      routeEmitter.Emit,
		SDKClient:  clientEmitter.Emit,
		CoreQuery:  coreQueryEmitter.Emit,
		Hooks:      hooksEmitter.Emit,
		Test:       testEmitter.Emit,
		Admin:      adminEmitter.Emit,

		Registry: registry.New(dtoEmitter.Emit, validatorEmitter.Emit, serviceEmitter.Emit, controllerEmitter.Emit, routeEmitter.Emit),

		OpenAPI:  openapiEmitter.Emit,
		Scaffold: scaffoldEmitter.Emit,
		CI:       nil,
		Barrels:  baseEmitter.Emit,
	}
	return deps, nil
}

func hookFrameworkOf(cfg *genconfig.Config) string {
	if len(cfg.HookFrameworks) == 0 {
		return "react-query"
	}
	return cfg.HookFrameworks[0]
}

// loadPriorDigests reads the prior run's manifest (if any) so the Writer
// can skip unchanged files. A missing or unreadable manifest just means
// every file writes fresh, not an error.
func loadPriorDigests(outputDir string) writer.PriorDigests {
	data, err := os.ReadFile(filepath.Join(outputDir, ".schemagen-manifest.json"))
	if err != nil {
		return nil
	}
	var m struct {
		Digests map[string]string `json:"digests"`
	}
	if json.Unmarshal(data, &m) != nil {
		return nil
	}
	return writer.PriorDigests(m.Digests)
}

// writeManifest persists this run's manifest (spec.md §6's "schemaHash,
// toolVersion, pluginVersions, phaseTimings, fileCount,
// diagnosticsSummary") plus the per-file digest map the next run's
// loadPriorDigests reads back.
func writeManifest(outputDir string, ctx *phase.Context, digests map[string]string) error {
	out := struct {
		Manifest interface{}       `json:"manifest"`
		Digests  map[string]string `json:"digests"`
	}{
		Manifest: ctx.Manifest,
		Digests:  digests,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, ".schemagen-manifest.json"), data, 0o644)
}
