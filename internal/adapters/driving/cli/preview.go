package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
)

var previewCmd = &cobra.Command{
	Use:   "preview <link>...",
	Short: "Show what an import would create, without writing anything",
	Long: `Fetches and parses the given notebooks, maps them onto the destination
hierarchy, and prints the resulting page tree. Nothing is written to
Notion and no job is recorded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	registerImportFlags(previewCmd)
	rootCmd.AddCommand(previewCmd)
}

// registerImportFlags registers the fetch/map flags shared by preview,
// import, and jobs resume.
func registerImportFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("concurrency", "c", driving.DefaultBatchConcurrency, "Concurrent fetches")
	cmd.Flags().IntP("max-depth", "d", driving.DefaultMaxDepth, "Maximum hierarchy depth to map")
	cmd.Flags().Bool("databases", false, "Create one database per notebook")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}

	opts, err := importOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := migrationService.Preview(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	printBatchSummary(cmd, result.Batch)
	printMapping(cmd, result.Mapping)
	return nil
}

// importOptionsFromFlags reads the shared fetch/map flags. preview and
// import register the same flag set.
func importOptionsFromFlags(cmd *cobra.Command) (driving.ImportOptions, error) {
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return driving.ImportOptions{}, err
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return driving.ImportOptions{}, err
	}
	databases, err := cmd.Flags().GetBool("databases")
	if err != nil {
		return driving.ImportOptions{}, err
	}

	// Config supplies defaults for flags the user did not pass.
	if configStore != nil {
		if !cmd.Flags().Changed("concurrency") {
			if v := configStore.GetInt("import.concurrency"); v > 0 {
				concurrency = v
			}
		}
		if !cmd.Flags().Changed("max-depth") {
			if v := configStore.GetInt("import.max_depth"); v > 0 {
				maxDepth = v
			}
		}
	}

	return driving.ImportOptions{
		Batch: driving.BatchOptions{Concurrency: concurrency},
		Map: driving.MapOptions{
			CreateDatabases: databases,
			MaxDepth:        maxDepth,
		},
	}, nil
}

func printBatchSummary(cmd *cobra.Command, batch domain.BatchResult) {
	cmd.Printf("Fetched %d/%d notebooks\n", batch.SucceededCount, batch.TotalCount)
	for _, msg := range batch.FailureMessages {
		cmd.Printf("  failed: %s\n", msg)
	}
}

func printMapping(cmd *cobra.Command, mapping domain.MappingResult) {
	if !mapping.Succeeded {
		cmd.Println("\nMapping failed:")
		for _, e := range mapping.Errors {
			cmd.Printf("  %s\n", e)
		}
		return
	}

	cmd.Println()
	for _, page := range mapping.Pages {
		printPageTree(cmd, page, 0)
	}

	if len(mapping.DatabaseIDs) > 0 {
		cmd.Printf("\nDatabases: %d (one per notebook)\n", len(mapping.DatabaseIDs))
	}

	cmd.Printf("\n%d notebooks, %d sections, %d pages (%dms)\n",
		mapping.Stats.NotebookCount,
		mapping.Stats.SectionCount,
		mapping.Stats.PageCount,
		mapping.Stats.ElapsedMs)

	// A succeeded mapping can still carry validation findings.
	for _, e := range mapping.Errors {
		cmd.Printf("warning: %s\n", e)
	}
}

func printPageTree(cmd *cobra.Command, page domain.DestinationPage, depth int) {
	indent := strings.Repeat("  ", depth)
	cmd.Printf("%s%s [%s]\n", indent, page.Title, page.Type)
	for _, child := range page.Children {
		printPageTree(cmd, child, depth+1)
	}
}
