package scaffold

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/analyzer"
	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/phase"
	"github.com/schemagen/schemagen/pkg/plugin"
	"github.com/schemagen/schemagen/pkg/pluralize"
)

func buildTestSchema(t *testing.T) *ir.ParsedSchema {
	t.Helper()
	raw := ir.RawSchema{Models: []ir.RawModel{{
		Name: "Post",
		Fields: []ir.RawField{
			{Name: "id", Type: "String", Kind: "scalar", IsRequired: true, IsId: true},
			{Name: "title", Type: "String", Kind: "scalar", IsRequired: true},
		},
	}}}
	schema, err := ir.Build(raw, ir.NewBuildOptions())
	require.NoError(t, err)
	return schema
}

func buildTestContext(t *testing.T, cfg genconfig.Config) *phase.Context {
	t.Helper()
	schema := buildTestSchema(t)
	cache := analyzer.NewCache()
	cache.Build(schema)
	ctx := phase.New(schema, cache, &cfg, plugin.NewRegistry(), "test")
	ctx.PluginEnvVars = map[string]string{"JWT_SECRET": "change-me"}
	ctx.PluginDeps = map[string]string{"prom-client": "^15.0.0"}
	ctx.PluginHealth = []plugin.HealthSection{{Name: "auth", Status: "ok"}}
	return ctx
}

func TestEmit_MiddlewareChainProducesMemStoreAndRuntimePackages(t *testing.T) {
	cfg := genconfig.Default()
	ctx := buildTestContext(t, cfg)
	e := New(layout.New("", false, ""), pluralize.New(nil), "github.com/schemagen/schemagen")

	files, diags := e.Emit(ctx)
	require.Empty(t, diags)

	byPath := map[string]string{}
	for _, f := range files {
		byPath[f.Path] = f.Contents
	}

	require.Contains(t, byPath, "gen/memstore/post.go")
	require.Contains(t, byPath["gen/memstore/post.go"], "PostMemStore")
	require.Contains(t, byPath, "gen/apierrors/apierrors.go")
	require.Contains(t, byPath, "gen/controllers/helpers.go")
	require.NotContains(t, byPath, "gen/httpkit/httpkit.go")
	require.Contains(t, byPath, "src/app.go")
	require.Contains(t, byPath["src/app.go"], "controllers.NewPostHandler")
	require.Contains(t, byPath["src/app.go"], "routes.RegisterPostRoutes")
}

func TestEmit_PluginRegisterDialectEmitsHTTPKitAndWiresDeps(t *testing.T) {
	cfg := genconfig.Default()
	cfg.Framework = "plugin-register"
	ctx := buildTestContext(t, cfg)
	e := New(layout.New("", false, ""), pluralize.New(nil), "github.com/schemagen/schemagen")

	files, diags := e.Emit(ctx)
	require.Empty(t, diags)

	byPath := map[string]string{}
	for _, f := range files {
		byPath[f.Path] = f.Contents
	}

	require.Contains(t, byPath, "gen/httpkit/httpkit.go")
	require.NotContains(t, byPath, "gen/controllers/helpers.go")
	require.Contains(t, byPath["src/app.go"], "controllers.PostDeps")
	require.Contains(t, byPath["src/app.go"], "table.Mount(router)")
}

func TestEmit_EnvExampleListsPluginEnvVarsAndDeps(t *testing.T) {
	cfg := genconfig.Default()
	ctx := buildTestContext(t, cfg)
	e := New(layout.New("", false, ""), pluralize.New(nil), "github.com/schemagen/schemagen")

	files, _ := e.Emit(ctx)
	var envExample string
	for _, f := range files {
		if f.Path == "env.example" {
			envExample = f.Contents
		}
	}
	require.Contains(t, envExample, "JWT_SECRET=change-me")
	require.Contains(t, envExample, "prom-client")
}

func TestEmit_AppHealthHandlerIncludesPluginHealthSections(t *testing.T) {
	cfg := genconfig.Default()
	ctx := buildTestContext(t, cfg)
	e := New(layout.New("", false, ""), pluralize.New(nil), "github.com/schemagen/schemagen")

	files, _ := e.Emit(ctx)
	var appSrc string
	for _, f := range files {
		if f.Path == "src/app.go" {
			appSrc = f.Contents
		}
	}
	require.Contains(t, appSrc, `body["auth"]`)
}
