package cli

import (
	"github.com/spf13/cobra"

	"github.com/notelift/notelift-cli/internal/links"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <link>...",
	Short: "Classify OneNote links without fetching them",
	Long: `Classifies each link as a local path, OneDrive share, or onenote:
protocol URL and prints the extracted notebook name and section target.
Nothing is fetched or imported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	invalid := 0

	for _, ref := range args {
		link := links.Resolve(ref)

		if !link.Valid {
			invalid++
			cmd.Printf("INVALID  %s\n", ref)
			cmd.Printf("         %s\n", link.ValidationError)
			continue
		}

		cmd.Printf("%-8s %s\n", link.Kind, link.DisplayLabel())
		if link.SourcePath != "" {
			cmd.Printf("         path: %s\n", link.SourcePath)
		}
		if link.SectionID != "" {
			cmd.Printf("         section: %s\n", link.SectionID)
		}
	}

	if invalid > 0 {
		cmd.Printf("\n%d of %d links could not be classified\n", invalid, len(args))
	}
	return nil
}
