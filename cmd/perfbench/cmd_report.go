package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/spf13/cobra"
)

var (
	reportOutputDir   string
	reportFormats     []string
	reportInterpret   bool
	reportProjectPath string
	reportConfigPath  string
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <suite.json>",
		Short: "Re-render reports from a saved suite",
		Long: `Load a suite JSON written by "perfbench run" and write its reports again,
for example in a format that was not enabled at run time. The summary, tiers
and recommendations are recomputed with the current configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: reportCommandE,
	}

	cmd.Flags().StringVarP(&reportOutputDir, "output-dir", "o", "", "Directory for the reports (default: next to the suite file)")
	cmd.Flags().StringArrayVar(&reportFormats, "format", nil, "Report format (can be repeated, default: configured formats)")
	cmd.Flags().BoolVar(&reportInterpret, "interpret", false, "Print a plain-language interpretation of the suite")
	cmd.Flags().StringVar(&reportProjectPath, "project-path", ".", "Path to the project (for thresholds and formats)")
	cmd.Flags().StringVar(&reportConfigPath, "config", "", "Config file (default: nearest .perfbench.yaml)")

	return cmd
}

func reportCommandE(cmd *cobra.Command, args []string) error {
	suite, err := reporting.LoadSuite(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig(reportProjectPath, reportConfigPath)
	if err != nil {
		return err
	}
	builder, err := newSummaryBuilder(cfg)
	if err != nil {
		return err
	}
	suite.Summary = builder.Build(suite.Results, suite.TotalDurationMs)

	names := cfg.Reports.Formats
	if len(reportFormats) > 0 {
		names = reportFormats
	}
	formats, err := reporting.ParseFormats(names)
	if err != nil {
		return err
	}

	if len(formats) == 0 {
		formats = reporting.DefaultFormats()
	}

	dir := reportOutputDir
	if dir == "" {
		dir = filepath.Dir(args[0])
	}

	out := cmd.OutOrStdout()
	if reportInterpret {
		fmt.Fprintln(out, reporting.FormatSummaryReport(suite, builder.Classifier())) //nolint:errcheck
	}

	// a json export next to the source would replace it, or add a second
	// copy of the run to that results directory
	if sameDir(dir, filepath.Dir(args[0])) && slices.Contains(formats, reporting.FormatJSON) {
		formats = slices.DeleteFunc(formats, func(f reporting.Format) bool { return f == reporting.FormatJSON })
		fmt.Fprintln(out, "Skipping json: the output directory holds the source suite (use --output-dir)") //nolint:errcheck
		if len(formats) == 0 {
			return nil
		}
	}

	exporter := reporting.NewExporter(dir, builder.Classifier(), formats...)
	artifacts, err := exporter.WriteAll(cmd.Context(), suite)
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	printArtifacts(out, artifacts)
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
