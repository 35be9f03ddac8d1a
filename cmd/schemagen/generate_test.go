package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemagen/schemagen/pkg/genconfig"
)

const testSchemaJSON = `{
  "models": [
    {
      "name": "Post",
      "fields": [
        {"name": "id", "type": "String", "kind": "scalar", "isRequired": true, "isId": true},
        {"name": "title", "type": "String", "kind": "scalar", "isRequired": true},
        {"name": "slug", "type": "String", "kind": "scalar", "isRequired": true, "isUnique": true}
      ]
    }
  ]
}`

func writeTestFixture(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.json"), []byte(testSchemaJSON), 0o644))
	configPath := filepath.Join(dir, "schemagen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("schemaPath: schema.json\nframework: middleware-chain\noutputDir: out\n"), 0o644))
	return configPath
}

func TestRunGenerate_MiddlewareChainProducesFilesAndManifest(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFixture(t, dir)

	cfg, err := genconfig.Load(configPath)
	require.NoError(t, err)

	require.NoError(t, runGenerate(configPath, cfg, false, true))

	outDir := filepath.Join(dir, "out")
	_, err = os.Stat(filepath.Join(outDir, "gen", "controllers", "post.go"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "src", "app.go"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, ".schemagen-manifest.json"))
	require.NoError(t, err)
}

func TestRunGenerate_RegistryModeSecondRunSucceeds(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFixture(t, dir)

	cfg, err := genconfig.Load(configPath)
	require.NoError(t, err)
	cfg.UseRegistry = true

	require.NoError(t, runGenerate(configPath, cfg, false, true))
	require.NoError(t, runGenerate(configPath, cfg, false, true))

	outDir := filepath.Join(dir, "out")
	_, err = os.Stat(filepath.Join(outDir, "gen", "controllers", "post.go"))
	require.NoError(t, err)
}

func TestBuildDependencies_PluginRegisterDialectWiresHTTPKit(t *testing.T) {
	cfg := genconfig.Default()
	cfg.SchemaPath = "schema.json"
	cfg.Framework = "plugin-register"

	deps, err := buildDependencies(&cfg)
	require.NoError(t, err)
	require.NotNil(t, deps.Controller)
	require.NotNil(t, deps.Scaffold)
	require.NotNil(t, deps.Barrels)
	require.Nil(t, deps.CI)
	require.NotNil(t, deps.Admin)
}
