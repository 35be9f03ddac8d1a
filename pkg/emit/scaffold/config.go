package scaffold

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/phase"
)

// renderConfig renders src/config.go: environment-variable driven runtime
// config for the generated project. Grounded on
// 2lar-b2/backend2/infrastructure/config/config.go's getEnv/getEnvBool/
// getEnvInt style, extended with PluginEnvVars so a plugin's declared
// environment variable surfaces as a real struct field rather than a
// bare os.Getenv scattered through plugin code.
func (e *Emitter) renderConfig(ctx *phase.Context) string {
	var b strings.Builder
	b.WriteString(`// Package src is the generated project's runtime shell: config,
// logging, middleware, and the HTTP app bootstrap around the gen/
// packages the schema emitters produce.
package src

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration read from the environment
// (see .env.example for the full list and defaults).
type Config struct {
	ServerAddress string
	Environment   string
	LogLevel      string

	DatabaseURL string

	CORSOrigins            []string
	EnableCORS             bool
	ShutdownTimeoutSeconds int
`)
	for _, name := range sortedEnvVars(ctx.PluginEnvVars) {
		b.WriteString("\t" + envVarFieldName(name) + " string\n")
	}
	b.WriteString("}\n\n")

	b.WriteString(`// LoadConfig reads Config from the environment, applying the defaults
// every field falls back to when unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:          getEnv("SERVER_ADDRESS", ":8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            getEnv("DATABASE_URL", "postgres://localhost:5432/app"),
		CORSOrigins:            splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		EnableCORS:             getEnvBool("ENABLE_CORS", true),
		ShutdownTimeoutSeconds: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 15),
`)
	for _, name := range sortedEnvVars(ctx.PluginEnvVars) {
		fmt.Fprintf(&b, "\t\t%s: getEnv(%q, %q),\n", envVarFieldName(name), name, ctx.PluginEnvVars[name])
	}
	b.WriteString(`	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required production configuration is present.
func (c *Config) Validate() error {
	if c.Environment == "production" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Environment == "development" }
func (c *Config) IsProduction() bool  { return c.Environment == "production" }

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
`)
	return b.String()
}

func envVarFieldName(envVar string) string {
	parts := strings.Split(strings.ToLower(envVar), "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
