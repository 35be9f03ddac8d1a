package genconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigFileNames lists the file names DiscoverConfig walks a
// directory for, in priority order.
var DefaultConfigFileNames = []string{
	"schemagen.yaml",
	"schemagen.yml",
	"schemagen.config.yaml",
	"schemagen.config.yml",
}

// DiscoverConfig walks upward from startPath (or the current directory)
// looking for one of DefaultConfigFileNames, the way the teacher's
// DiscoverConfig walks for graphql-go-gen.* files.
func DiscoverConfig(startPath string) (string, error) {
	if startPath != "" && fileExists(startPath) {
		return startPath, nil
	}

	dir := "."
	if startPath != "" {
		dir = filepath.Dir(startPath)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return discoverFrom(dir)
}

func discoverFrom(dir string) (string, error) {
	for _, name := range DefaultConfigFileNames {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	parent := filepath.Dir(dir)
	if parent != dir && parent != "/" && parent != "." {
		return discoverFrom(parent)
	}

	return "", fmt.Errorf("genconfig: no configuration file found (looked for %v)", DefaultConfigFileNames)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
