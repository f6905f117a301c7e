package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [document] [query]",
	Short: "Highlight every occurrence of a query",
	Long: `Highlights every occurrence of the query in the document using the
strict tolerant pattern (diacritic folding, punctuation gaps). Prints
the matched groups in reading order.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if acquisitionService == nil || newHighlighter == nil {
		return errors.New("acquisition service not configured")
	}

	rec, err := loadRecord(args[0], "", nil)
	if err != nil {
		return err
	}
	query := args[1]

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := acquisitionService.Acquire(ctx, rec)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", rec.Name, err)
	}

	h := newHighlighter(rec, res)
	if err := h.Search(ctx, query); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	state := h.State()
	if searchJSON {
		return printJSON(cmd, state.Ordered)
	}
	printSearchMatches(cmd, query, state.Ordered)
	return nil
}

func printSearchMatches(cmd *cobra.Command, query string, groups []domain.HighlightGroup) {
	if len(groups) == 0 {
		cmd.Printf("No matches for %q.\n", query)
		return
	}

	cmd.Printf("%d matches for %q:\n\n", len(groups), query)
	for i, g := range groups {
		rep := g.Representative()
		cmd.Printf("  [%d] offset %d", i+1, rep.Start)
		if page := groupPage(g); page > 0 {
			cmd.Printf(", page %d", page)
		}
		cmd.Println()
	}
}

// groupPage derives a display page from the representative node ID
// ("p3-l12" style IDs carry the page). Zero for unpaged documents.
func groupPage(g domain.HighlightGroup) int {
	rep := g.Representative()
	if len(rep.NodeIDs) == 0 {
		return 0
	}
	var page int
	if _, err := fmt.Sscanf(rep.NodeIDs[0], "p%d-", &page); err != nil {
		return 0
	}
	return page
}
