package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a folder's documents up to date",
	Long: `Upload every supported file in a folder, then watch it for changes.

New files are uploaded, modified files replace their previous upload and
removed files are deleted. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchNoSync is a flag for the watch command.
var watchNoSync bool

func init() {
	watchCmd.Flags().BoolVar(&watchNoSync, "no-sync", false, "Skip the initial upload of existing files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if folderService == nil {
		return errNotConfigured("folder")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !watchNoSync {
		report, err := folderService.Sync(ctx, dir)
		if err != nil {
			return fmt.Errorf("failed to ingest folder: %w", err)
		}
		cmd.Printf("Ingested %d documents, skipped %d, failed %d\n",
			len(report.Ingested), report.Skipped, len(report.Failed))
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	err = folderService.Watch(ctx, dir, func(change domain.Change, err error) {
		if err != nil {
			cmd.Printf("  %-8s %s: %v\n", change.Type, change.Document.URI, err)
			return
		}
		cmd.Printf("  %-8s %s\n", change.Type, change.Document.URI)
	})
	if err != nil {
		return fmt.Errorf("failed to watch folder: %w", err)
	}
	documentService.Wait()
	cmd.Println("Stopped watching")
	return nil
}
