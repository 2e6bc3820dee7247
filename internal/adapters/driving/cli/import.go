package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notelift/notelift-cli/internal/adapters/driving/tui"
	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
)

var importCmd = &cobra.Command{
	Use:   "import <link>...",
	Short: "Import OneNote notebooks into Notion",
	Long: `Fetches the given notebooks, maps them onto the destination hierarchy,
and writes the pages to Notion. The run is recorded as a job; if it is
interrupted or some items fail, 'notelift jobs resume' picks up where it
left off.

Requires notion.token and notion.parent_page_id to be configured:
  notelift config set notion.token <secret>
  notelift config set notion.parent_page_id <page-id>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	registerImportFlags(importCmd)
	importCmd.Flags().Bool("plain", false, "Plain output, no interactive progress view")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}

	opts, err := importOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return err
	}

	if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
		return runImportTUI(cmd, args, opts)
	}

	cmd.Printf("Importing %d notebooks...\n", len(args))

	job, err := migrationService.Import(cmd.Context(), args, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printJobSummary(cmd, job)
	return nil
}

// runImportTUI runs the import behind the interactive progress view.
func runImportTUI(cmd *cobra.Command, refs []string, opts driving.ImportOptions) error {
	model := tui.NewImportModel(migrationService, jobStore, refs, opts)

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress view error: %w", err)
	}

	m, ok := final.(tui.ImportModel)
	if !ok {
		return nil
	}
	if m.Err() != nil {
		return m.Err()
	}
	if job := m.Job(); job != nil {
		printJobSummary(cmd, job)
	}
	return nil
}

func printJobSummary(cmd *cobra.Command, job *domain.ImportJob) {
	imported, failed, pages := 0, 0, 0
	for _, item := range job.Items {
		switch item.State {
		case domain.ItemImported:
			imported++
			pages += item.PageCount
		case domain.ItemFailed:
			failed++
		}
	}

	cmd.Printf("\nJob %s: %s\n", job.ID, job.Status)
	cmd.Printf("  %d imported (%d pages), %d failed\n", imported, pages, failed)

	for _, item := range job.Items {
		if item.State == domain.ItemFailed {
			cmd.Printf("  failed: %s: %s\n", item.DisplayName, item.Error)
		}
	}

	if failed > 0 {
		cmd.Printf("\nRetry failed items with: notelift jobs resume %s\n", job.ID)
	}
}
