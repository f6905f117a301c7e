// Command citemark highlights backend-supplied citations in document
// previews. It wires the driven adapters (fetcher, layer builders,
// config and report stores) into the core services and hands them to
// the CLI.
package main

import (
	"fmt"
	"os"
	"time"

	configfile "github.com/offerta-labs/citemark/internal/adapters/driven/config/file"
	"github.com/offerta-labs/citemark/internal/adapters/driven/fetch"
	"github.com/offerta-labs/citemark/internal/adapters/driven/storage/sqlite"
	"github.com/offerta-labs/citemark/internal/adapters/driving/cli"
	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
	"github.com/offerta-labs/citemark/internal/core/services"
	"github.com/offerta-labs/citemark/internal/layers/docx"
	"github.com/offerta-labs/citemark/internal/layers/html"
	"github.com/offerta-labs/citemark/internal/layers/pdf"
	"github.com/offerta-labs/citemark/internal/layers/plaintext"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
	"github.com/offerta-labs/citemark/internal/logger"
	"github.com/offerta-labs/citemark/internal/matcher"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	// A broken report store should not take the viewer down; commands
	// skip saving when the store is absent.
	var reportStore driven.ReportStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("report store unavailable, runs will not be saved: %v", err)
	} else {
		reportStore = store
		defer store.Close()
	}

	fetcher := fetch.New()

	registry := services.NewBuilderRegistry()
	registry.Register(plaintext.New())
	registry.Register(html.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())

	acquisition := services.NewAcquisitionService(fetcher, registry)
	if ms := configStore.GetInt("gate.timeout_ms"); ms > 0 {
		acquisition.GateTimeout = time.Duration(ms) * time.Millisecond
	}
	if ms := configStore.GetInt("gate.poll_interval_ms"); ms > 0 {
		acquisition.PollInterval = time.Duration(ms) * time.Millisecond
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Acquisition: acquisition,
		Highlighter: highlighterFactory(configStore),
		Reports:     reportStore,
		Config:      configStore,
		Invalidate:  fetcher.Invalidate,
	})
	return cli.Execute()
}

// highlighterFactory builds a highlight manager over an acquired layer,
// applying the configured matcher and grouping tunables.
func highlighterFactory(cfg driven.ConfigStore) cli.HighlighterFactory {
	return func(rec domain.FileRecord, res *driving.AcquireResult) driving.Highlighter {
		marker := textlayer.NewMarker(res.Layer)
		if n := matcher.SuppressFooters(res.Layer, marker); n > 0 {
			logger.Debug("excluded %d repeating footer nodes from matching", n)
		}

		opts := matcher.Options{
			LooseGapCap:  cfg.GetInt("matcher.loose_gap_cap"),
			DisableBitap: cfg.GetBool("matcher.disable_bitap"),
		}
		m := services.NewHighlightManagerWithOptions(rec, res.Layer, marker, opts)
		m.SetDegraded(res.Degraded)

		if ms := cfg.GetInt("matcher.pacing_ms"); ms > 0 {
			m.SetPacing(time.Duration(ms) * time.Millisecond)
		}

		defaults := services.DefaultGroupingConfig()
		m.SetGrouping(services.GroupingConfig{
			SameLineYTolerance: cfg.FloatOr("grouping.same_line_y_tolerance", defaults.SameLineYTolerance),
			MaxXGap:            cfg.FloatOr("grouping.max_x_gap", defaults.MaxXGap),
			LineWrapMinYGap:    cfg.FloatOr("grouping.line_wrap_min_y_gap", defaults.LineWrapMinYGap),
			LineWrapMaxYGap:    cfg.FloatOr("grouping.line_wrap_max_y_gap", defaults.LineWrapMaxYGap),
		})
		return m
	}
}
