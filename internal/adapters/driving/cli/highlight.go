package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
)

var (
	highlightCitations  []string
	highlightRecordFile string
	highlightJSON       bool
	highlightNoSave     bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [document]",
	Short: "Locate citations in a document",
	Long: `Runs the citation pipeline against a document: each citation is
normalised into fragments and located with progressively tolerant
passes (strict, loose, prefix, fuzzy recovery). Prints a per-citation
report and stores it unless --no-save is given.

The document may be a local path, a file:// URL or an http(s) URL.
Citations come from repeated --citation flags or from a JSON record
file produced by the analysis backend.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringArrayVarP(&highlightCitations, "citation", "c", nil, "citation text to locate (repeatable)")
	highlightCmd.Flags().StringVarP(&highlightRecordFile, "record", "r", "", "JSON file record with document URL and citations")
	highlightCmd.Flags().BoolVar(&highlightJSON, "json", false, "output the report as JSON")
	highlightCmd.Flags().BoolVar(&highlightNoSave, "no-save", false, "do not persist the run report")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	if acquisitionService == nil || newHighlighter == nil {
		return errors.New("acquisition service not configured")
	}

	location := ""
	if len(args) > 0 {
		location = args[0]
	}
	rec, err := loadRecord(location, highlightRecordFile, highlightCitations)
	if err != nil {
		return err
	}

	citations := rec.CitationList()
	if len(citations) == 0 {
		return fmt.Errorf("%w: no citations to locate", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, _, err := highlightOnce(ctx, cmd, rec, citations)
	if err != nil {
		return err
	}

	if !highlightNoSave && reportStore != nil {
		if err := reportStore.SaveRun(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if highlightJSON {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

// highlightOnce runs one full citation pass and returns the report plus
// the bound highlighter for callers that keep navigating (watch mode).
func highlightOnce(
	ctx context.Context,
	cmd *cobra.Command,
	rec domain.FileRecord,
	citations []domain.Citation,
) (domain.RunReport, driving.Highlighter, error) {
	res, err := acquisitionService.Acquire(ctx, rec)
	if err != nil {
		return domain.RunReport{}, nil, fmt.Errorf("acquire %s: %w", rec.Name, err)
	}

	h := newHighlighter(rec, res)
	if !highlightJSON {
		h.SetProgressFunc(func(processed, total int) {
			cmd.Printf("\rLocating citations %d/%d", processed, total)
			if processed == total {
				cmd.Println()
			}
		})
	}

	report, err := h.HighlightCitations(ctx, citations)
	if err != nil {
		return report, h, fmt.Errorf("highlight pass: %w", err)
	}
	return report, h, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printReport(cmd *cobra.Command, report domain.RunReport) {
	cmd.Printf("Located %d/%d citations in %s\n", report.FoundCount(), len(report.Outcomes), report.Duration.Round(time.Millisecond))
	if report.Degraded {
		cmd.Println("Warning: document did not finish rendering, results may be incomplete")
	}
	cmd.Println()

	for i, o := range report.Outcomes {
		marker := "✓"
		if !o.Found {
			marker = "✗"
		}
		cmd.Printf("  [%d] %s %s\n", i+1, marker, truncate(o.Text, 70))
		if o.Found {
			cmd.Printf("      strategy: %s, groups: %d\n", o.Strategy, o.Groups)
		} else if o.Suggestion != "" {
			cmd.Printf("      nearest text: %s\n", o.Suggestion)
		}
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
