// Package cli implements the command line driving adapter. Commands
// acquire a document's text layer, run citation or search passes over
// it and print the resulting report.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
	"github.com/offerta-labs/citemark/internal/logger"
)

// version is the build version, overridden via SetVersion.
var version = "dev"

// HighlighterFactory binds a highlighter to an acquired layer. The
// composition root supplies it so commands stay on the driving ports.
type HighlighterFactory func(rec domain.FileRecord, res *driving.AcquireResult) driving.Highlighter

// Service implementations injected by the composition root.
var (
	acquisitionService driving.Acquisition
	newHighlighter     HighlighterFactory
	reportStore        driven.ReportStore
	configStore        driven.ConfigStore
	invalidateFn       func(rawURL string)
)

// Services aggregates the implementations the commands depend on.
type Services struct {
	// Acquisition fetches documents and builds text layers.
	Acquisition driving.Acquisition

	// Highlighter binds a highlighter to an acquired layer.
	Highlighter HighlighterFactory

	// Reports persists run reports. Optional; commands skip saving
	// when nil.
	Reports driven.ReportStore

	// Config provides matching and grouping tunables. Optional.
	Config driven.ConfigStore

	// Invalidate drops a cached document so watch mode refetches it.
	// Optional.
	Invalidate func(rawURL string)
}

// SetServices installs the service implementations used by the commands.
func SetServices(s Services) {
	acquisitionService = s.Acquisition
	newHighlighter = s.Highlighter
	reportStore = s.Reports
	configStore = s.Config
	invalidateFn = s.Invalidate
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "citemark",
	Short: "Highlight backend citations in document previews",
	Long: `Citemark locates backend-supplied citations in a rendered document
and highlights every occurrence, tolerating OCR noise, diacritic loss
and broken whitespace. It supports PDF, DOCX, HTML and plain text
documents fetched from a URL or read from a local path.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
