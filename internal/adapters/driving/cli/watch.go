package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/logger"
)

var (
	watchCitations  []string
	watchRecordFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Re-run the citation pass when the document changes",
	Long: `Runs the citation pipeline, then watches the local document for
writes and re-runs the pass on every change. Only local paths can be
watched. Stop with ctrl+c.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVarP(&watchCitations, "citation", "c", nil, "citation text to locate (repeatable)")
	watchCmd.Flags().StringVarP(&watchRecordFile, "record", "r", "", "JSON file record with document URL and citations")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if acquisitionService == nil || newHighlighter == nil {
		return errors.New("acquisition service not configured")
	}

	rec, err := loadRecord(args[0], watchRecordFile, watchCitations)
	if err != nil {
		return err
	}
	path, ok := watchablePath(rec.URL)
	if !ok {
		return fmt.Errorf("%w: %s is not a local path", domain.ErrInvalidInput, rec.URL)
	}
	citations := rec.CitationList()
	if len(citations) == 0 {
		return fmt.Errorf("%w: no citations to locate", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := watchPass(ctx, cmd, rec, citations); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	cmd.Printf("Watching %s for changes...\n", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug("document changed: %s", event)
			if invalidateFn != nil {
				invalidateFn(rec.URL)
			}
			cmd.Printf("\nDocument changed, re-running pass\n")
			if err := watchPass(ctx, cmd, rec, citations); err != nil {
				cmd.PrintErrf("pass failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		}
	}
}

func watchPass(ctx context.Context, cmd *cobra.Command, rec domain.FileRecord, citations []domain.Citation) error {
	report, _, err := highlightOnce(ctx, cmd, rec, citations)
	if err != nil {
		return err
	}
	printReport(cmd, report)

	if reportStore != nil {
		if err := reportStore.SaveRun(ctx, report); err != nil {
			cmd.PrintErrf("save report: %v\n", err)
		}
	}
	return nil
}

// watchablePath extracts a local filesystem path from the record URL.
func watchablePath(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "file://") {
		return strings.TrimPrefix(rawURL, "file://"), true
	}
	if !strings.Contains(rawURL, "://") {
		return rawURL, true
	}
	return "", false
}
