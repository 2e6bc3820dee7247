// Package cli provides the notelift command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute. Commands nil-check the
// service they need so partial wiring fails with a clear message.
var (
	migrationService driving.MigrationService
	batchProcessor   driving.BatchProcessor
	hierarchyMapper  driving.HierarchyMapper
	jobStore         driven.ImportJobStore
	configStore      driven.ConfigStore
)

// Services aggregates everything the CLI commands depend on.
type Services struct {
	Migration driving.MigrationService
	Batch     driving.BatchProcessor
	Mapper    driving.HierarchyMapper
	Jobs      driven.ImportJobStore
	Config    driven.ConfigStore
}

// Configure injects the wired services. Call once from main before Execute.
func Configure(s Services) {
	migrationService = s.Migration
	batchProcessor = s.Batch
	hierarchyMapper = s.Mapper
	jobStore = s.Jobs
	configStore = s.Config
}

var rootCmd = &cobra.Command{
	Use:   "notelift",
	Short: "Migrate OneNote notebooks to Notion",
	Long: `notelift moves OneNote notebooks into Notion.

It resolves OneNote links (local files, OneDrive shares, onenote: URLs),
fetches notebook content with bounded concurrency, maps the notebook
hierarchy onto Notion pages, and imports the result. Interrupted imports
are resumable.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose") //nolint:errcheck // flag is registered below
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
