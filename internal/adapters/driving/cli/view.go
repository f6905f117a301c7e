package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/offerta-labs/citemark/internal/adapters/driving/tui"
)

var (
	viewCitations  []string
	viewRecordFile string
)

var viewCmd = &cobra.Command{
	Use:   "view [document]",
	Short: "Open the interactive document viewer",
	Long: `Opens the document in an interactive terminal viewer with citation
highlights.

Controls:
  n / p    - Next / previous highlight
  /        - Search the document
  esc      - Clear search / highlights
  ↑/↓, PgUp/PgDn - Scroll
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringArrayVarP(&viewCitations, "citation", "c", nil, "citation text to locate (repeatable)")
	viewCmd.Flags().StringVarP(&viewRecordFile, "record", "r", "", "JSON file record with document URL and citations")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps stack traces visible outside the alt screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in viewer: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if acquisitionService == nil || newHighlighter == nil {
		return errors.New("acquisition service not configured")
	}

	location := ""
	if len(args) > 0 {
		location = args[0]
	}
	rec, err := loadRecord(location, viewRecordFile, viewCitations)
	if err != nil {
		return err
	}

	ports := &tui.Ports{
		Acquisition: acquisitionService,
		Highlighter: tui.HighlighterFactory(newHighlighter),
		Reports:     reportStore,
	}

	app, err := tui.NewApp(ports, rec)
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}
	return nil
}
