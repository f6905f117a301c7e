package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// tunableKeys are the configuration keys the pipeline reads, shown by
// "config show" with their effective values.
var tunableKeys = []struct {
	key string
	def string
}{
	{"gate.timeout_ms", "2500"},
	{"gate.poll_interval_ms", "50"},
	{"matcher.loose_gap_cap", "600"},
	{"matcher.disable_bitap", "false"},
	{"matcher.pacing_ms", "100"},
	{"grouping.same_line_y_tolerance", "5"},
	{"grouping.max_x_gap", "50"},
	{"grouping.line_wrap_min_y_gap", "10"},
	{"grouping.line_wrap_max_y_gap", "40"},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change matching tunables",
	Long: `Shows the matching and grouping tunables: readiness gate timeout,
loose-gap cap, citation pacing and the grouping pixel thresholds.
Values are stored in ~/.citemark/config.toml.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current tunables",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a tunable",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	for _, t := range tunableKeys {
		val, ok := configStore.Get(t.key)
		if !ok {
			cmd.Printf("  %-26s %v (default)\n", t.key, t.def)
			continue
		}
		cmd.Printf("  %-26s %v\n", t.key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if !knownTunable(key) {
		return fmt.Errorf("unknown key %q, see 'citemark config show'", key)
	}

	if err := configStore.Set(key, parseTunable(raw)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

func knownTunable(key string) bool {
	for _, t := range tunableKeys {
		if t.key == key {
			return true
		}
	}
	return false
}

// parseTunable keeps numeric and boolean values typed so the TOML file
// round-trips them without quotes.
func parseTunable(raw string) any {
	// Numbers first: ParseBool would also claim "1" and "0".
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
