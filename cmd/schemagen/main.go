package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemagen/schemagen/pkg/genconfig"
)

var (
	version  = "0.1.0"
	cfgFile  string
	verbose  bool
	quiet    bool
	strict   bool
	registry bool
)

var rootCmd = &cobra.Command{
	Use:     "schemagen",
	Short:   "Schema-driven backend+frontend code generator",
	Long:    `schemagen turns a normalized schema IR and a declarative generator config into a complete, typed backend+frontend project: DTOs, validators, services, controllers, routes, an SDK client, data-access hooks, an OpenAPI document, test scaffolding, and the ambient project shell needed to run it.`,
	Version: version,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the generation pipeline against a schema and config",
	RunE: func(cmd *cobra.Command, args []string) error {
		var configPath string
		var err error

		if cfgFile != "" {
			configPath = cfgFile
		} else {
			configPath, err = genconfig.DiscoverConfig("")
			if err != nil {
				return fmt.Errorf("discovering config: %w", err)
			}
		}

		if !quiet {
			fmt.Printf("Loading config from: %s\n", configPath)
		}

		cfg, err := genconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if strict {
			cfg.Strict = true
		}
		if registry {
			cfg.UseRegistry = true
		}

		return runGenerate(configPath, cfg, verbose, quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: auto-discover schemagen.{yaml,yml})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "treat accumulated error-or-worse diagnostics as fatal")
	rootCmd.PersistentFlags().BoolVar(&registry, "registry", false, "use the collapsed registry-mode phase list")

	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
