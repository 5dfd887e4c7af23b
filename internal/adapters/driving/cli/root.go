// Package cli provides the command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/app"
	"github.com/custodia-labs/sercha-rag/internal/config"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// version is the CLI version, overridable at build time via -ldflags.
var version = "0.1.0"

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Local retrieval-augmented question answering",
	Long: `Sercha RAG ingests documents, indexes them for hybrid keyword and
semantic retrieval, and answers questions grounded in the indexed corpus.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadApp loads the configuration and assembles the pipeline.
// Commands that talk to providers call this in their RunE.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("starting services: %w", err)
	}
	return a, nil
}
