package genconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schemagen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		envVars  map[string]string
		wantErr  bool
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "basic valid config applies defaults",
			yaml: `
schemaPath: schema.json
framework: middleware-chain
plugins:
  - id: auth
    config:
      jwtSecretEnv: JWT_SECRET
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "middleware-chain", cfg.Framework)
				assert.Equal(t, 100, cfg.MaxTake)
				assert.Equal(t, CountExact, cfg.CountStrategy)
				assert.Len(t, cfg.Plugins, 1)
				assert.Equal(t, "auth", cfg.Plugins[0].ID)
			},
		},
		{
			name: "environment variable expansion",
			yaml: `
schemaPath: schema.json
framework: middleware-chain
rootImportPath: ${MODULE_PATH}
`,
			envVars: map[string]string{"MODULE_PATH": "github.com/acme/app"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "github.com/acme/app", cfg.RootImportPath)
			},
		},
		{
			name:    "unknown framework dialect rejected",
			yaml:    "schemaPath: schema.json\nframework: express-style\n",
			wantErr: true,
		},
		{
			name:    "unsupported output layout version rejected",
			yaml:    "schemaPath: schema.json\nframework: middleware-chain\noutputLayoutVersion: 2\n",
			wantErr: true,
		},
		{
			name: "duplicate plugin id rejected",
			yaml: `
schemaPath: schema.json
framework: middleware-chain
plugins:
  - id: auth
  - id: auth
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			path := writeTempConfig(t, tt.yaml)
			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestPluginIDsAndConfig(t *testing.T) {
	cfg := Default()
	cfg.Plugins = []PluginSpec{
		{ID: "auth", Config: map[string]interface{}{"jwtSecretEnv": "JWT_SECRET"}},
		{ID: "metrics"},
	}
	require.Equal(t, []string{"auth", "metrics"}, cfg.PluginIDs())
	require.Equal(t, "JWT_SECRET", cfg.PluginConfig("auth")["jwtSecretEnv"])
	require.Nil(t, cfg.PluginConfig("missing"))
}
