package main

import (
	"encoding/json"
	"fmt"

	"github.com/petprogress/perfbench/internal/baseline"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/spf13/cobra"
)

var (
	compareOutputFormat string
	compareTolerance    float64
	compareSeed         int64
	compareProjectPath  string
	compareConfigPath   string
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline.json> <current.json>",
		Short: "Compare two saved benchmark suites",
		Long: `Compare a saved suite against a baseline suite probe by probe.

Each probe is reported as regressed, improved, unchanged, new or missing.
Latency changes are tested with a bootstrap confidence interval over the raw
per-iteration durations; changes inside --tolerance are treated as noise, and
tier changes always count.`,
		Args: cobra.ExactArgs(2),
		RunE: compareCommandE,
	}

	cmd.Flags().StringVarP(&compareOutputFormat, "format", "f", "table", "Output format: table or json")
	cmd.Flags().Float64Var(&compareTolerance, "tolerance", baseline.DefaultTolerancePercent, "Latency change in percent treated as noise")
	cmd.Flags().Int64Var(&compareSeed, "seed", -1, "Bootstrap seed for reproducible output (negative for random)")
	cmd.Flags().StringVar(&compareProjectPath, "project-path", ".", "Path to the project (for thresholds)")
	cmd.Flags().StringVar(&compareConfigPath, "config", "", "Config file (default: nearest .perfbench.yaml)")

	return cmd
}

func compareCommandE(cmd *cobra.Command, args []string) error {
	if compareOutputFormat != "table" && compareOutputFormat != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", compareOutputFormat)
	}

	cfg, err := loadProjectConfig(compareProjectPath, compareConfigPath)
	if err != nil {
		return err
	}
	builder, err := newSummaryBuilder(cfg)
	if err != nil {
		return err
	}

	base, err := reporting.LoadSuite(args[0])
	if err != nil {
		return err
	}
	current, err := reporting.LoadSuite(args[1])
	if err != nil {
		return err
	}

	opts := baseline.DefaultOptions()
	opts.TolerancePercent = compareTolerance
	opts.Seed = compareSeed
	comparison := baseline.Compare(base, current, builder.Classifier(), opts)

	out := cmd.OutOrStdout()
	if compareOutputFormat == "json" {
		data, err := json.MarshalIndent(comparison, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison report: %w", err)
		}
		fmt.Fprintln(out, string(data)) //nolint:errcheck
		return nil
	}
	printComparisonTable(out, comparison)
	return nil
}
