package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notelift/notelift-cli/internal/adapters/driven/fetch/local"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]...",
	Short: "Watch notebook directories and mark affected jobs stale",
	Long: `Watches the given directories for changes to .one and .onepkg files.
When a notebook that was previously imported changes on disk, the jobs
that imported it are marked stale so 'notelift jobs resume' re-imports
the changed items.

With no arguments, the watch.dirs config value is used.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if jobStore == nil {
		return errors.New("job store not configured")
	}

	dirs := args
	if len(dirs) == 0 && configStore != nil {
		dirs = configStore.GetStringSlice("watch.dirs")
	}
	if len(dirs) == 0 {
		return errors.New("no directories to watch; pass them as arguments or set watch.dirs")
	}

	watcher, err := local.NewWatcher(jobStore, dirs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %d directories for notebook changes (Ctrl+C to stop)\n", len(dirs))

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
