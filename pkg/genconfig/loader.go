package genconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML generator-config file, expands ${ENV_VAR} references,
// applies defaults, and validates the result. Adapted from the teacher's
// YAMLLoader; this generator supports only YAML config files (the
// teacher's TypeScript/JavaScript config loaders depended on evaluating
// the host project's own module graph, which has no equivalent once the
// input is a normalized IR document rather than discovered schema/
// document sources — see DESIGN.md).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genconfig: reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("genconfig: parsing YAML config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("genconfig: invalid configuration: %w", err)
	}

	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$(\w+)`)

func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimPrefix(match, "${")
		varName = strings.TrimPrefix(varName, "$")
		varName = strings.TrimSuffix(varName, "}")

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
