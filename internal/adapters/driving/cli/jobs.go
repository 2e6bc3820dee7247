package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage import jobs",
	Long:  `List, inspect, resume, and delete recorded import jobs.`,
	RunE:  runJobsList,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded import jobs",
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one job with per-item detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

var jobsResumeCmd = &cobra.Command{
	Use:   "resume <job-id>",
	Short: "Re-run a job, skipping items already imported",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsResume,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job record",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

func init() {
	registerImportFlags(jobsResumeCmd)

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsResumeCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	if jobStore == nil {
		return errors.New("job store not configured")
	}

	jobs, err := jobStore.ListJobs(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No import jobs recorded.")
		return nil
	}

	for _, job := range jobs {
		cmd.Printf("%s  %-9s  %d items  %s\n",
			job.ID, job.Status, len(job.Items),
			job.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	if jobStore == nil {
		return errors.New("job store not configured")
	}

	job, err := jobStore.GetJob(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}

	printJobSummary(cmd, job)
	cmd.Println()
	for _, item := range job.Items {
		cmd.Printf("  %-9s %s", item.State, item.DisplayName)
		if item.PageCount > 0 {
			cmd.Printf(" (%d pages)", item.PageCount)
		}
		cmd.Println()
		if item.Error != "" {
			cmd.Printf("            %s\n", item.Error)
		}
	}
	return nil
}

func runJobsResume(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}

	opts, err := importOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Resuming job %s...\n", args[0])

	job, err := migrationService.Resume(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("resume failed: %w", err)
	}

	printJobSummary(cmd, job)
	return nil
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
	if jobStore == nil {
		return errors.New("job store not configured")
	}

	if err := jobStore.DeleteJob(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	cmd.Printf("Deleted job %s\n", args[0])
	return nil
}
