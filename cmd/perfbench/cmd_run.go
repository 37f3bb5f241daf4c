package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/petprogress/perfbench/internal/baseline"
	"github.com/petprogress/perfbench/internal/hooks"
	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/orchestration"
	"github.com/petprogress/perfbench/internal/probe"
	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/store"
	"github.com/petprogress/perfbench/internal/template"
	"github.com/spf13/cobra"
)

var (
	runProjectPath      string
	runResultsDir       string
	runSuiteName        string
	runDevice           string
	runOSVersion        string
	runConfigPath       string
	runFormats          []string
	runBaseline         string
	runMemorySource     string
	runQuiet            bool
	runFilters          []string
	runKeep             int
	runIterations       int
	runTolerance        float64
	runFailOnRegression bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suite",
		Long: `Run every probe in the catalog, print per-probe results and write the
configured reports to the results directory.

Settings come from .perfbench.yaml (searched upward from --project-path) and
are overridden by any flag given explicitly. The command exits 1 when a probe
fails, or when --fail-on-regression is set and a probe regressed against
--baseline.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runProjectPath, "project-path", ".", "Path to the project")
	cmd.Flags().StringVar(&runResultsDir, "results-dir", projectconfig.DefaultResultsDir, "Directory for results")
	cmd.Flags().StringVar(&runSuiteName, "suite-name", projectconfig.DefaultSuiteName, "Benchmark suite name")
	cmd.Flags().StringVar(&runDevice, "device", projectconfig.DefaultDevice, "Target device")
	cmd.Flags().StringVar(&runOSVersion, "os-version", projectconfig.DefaultOSVersion, "Target OS version")
	cmd.Flags().StringVar(&runConfigPath, "config", "", "Config file (default: nearest .perfbench.yaml)")
	cmd.Flags().StringArrayVar(&runFormats, "format", nil, "Report format: json, csv, markdown, html, junit, prometheus (can be repeated)")
	cmd.Flags().StringVar(&runBaseline, "baseline", "", "Baseline suite JSON to compare against, or \"latest\"")
	cmd.Flags().StringVar(&runMemorySource, "memory-source", projectconfig.DefaultMemorySource, "Memory sampler: rss, runtime or synthetic")
	cmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Only print the final summary")
	cmd.Flags().StringArrayVar(&runFilters, "filter", nil, "Only run probes whose name or category matches this glob (can be repeated)")
	cmd.Flags().IntVar(&runKeep, "keep", 0, "Keep only the newest N runs in the results directory (0 keeps all)")
	cmd.Flags().IntVar(&runIterations, "iterations", probe.Iterations, "Timed iterations per probe")
	cmd.Flags().Float64Var(&runTolerance, "tolerance", baseline.DefaultTolerancePercent, "Latency change in percent treated as noise when comparing")
	cmd.Flags().BoolVar(&runFailOnRegression, "fail-on-regression", false, "Exit 1 when a probe regressed against --baseline")

	return cmd
}

// applyRunFlags overlays explicitly set flags onto the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) {
	flags := cmd.Flags()
	if flags.Changed("results-dir") {
		cfg.Paths.Results = runResultsDir
	}
	if flags.Changed("suite-name") {
		cfg.Suite.Name = runSuiteName
	}
	if flags.Changed("device") {
		cfg.Suite.Device = runDevice
	}
	if flags.Changed("os-version") {
		cfg.Suite.OSVersion = runOSVersion
	}
	if flags.Changed("memory-source") {
		cfg.Memory.Source = runMemorySource
	}
	if flags.Changed("format") {
		cfg.Reports.Formats = runFormats
	}
	if flags.Changed("keep") {
		cfg.Paths.Keep = runKeep
	}
}

func runCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig(runProjectPath, runConfigPath)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	formats, err := reporting.ParseFormats(cfg.Reports.Formats)
	if err != nil {
		return err
	}
	sampler, err := probe.NewSampler(cfg.Memory.Source)
	if err != nil {
		return err
	}
	builder, err := newSummaryBuilder(cfg)
	if err != nil {
		return err
	}
	probes, err := effectiveProbes(cfg)
	if err != nil {
		return err
	}

	resultsDir := resolveResultsDir(runProjectPath, cfg.Paths.Results)
	results := store.New(resultsDir)

	// Resolve the baseline before this run's files land in the results dir,
	// so "latest" means the previous run.
	var base *models.Suite
	if runBaseline != "" {
		var basePath string
		base, basePath, err = results.Resolve(runBaseline)
		if err != nil {
			return fmt.Errorf("loading baseline: %w", err)
		}
		slog.Debug("loaded baseline", "path", basePath, "run_id", base.RunID)
	}

	suiteCfg := orchestration.SuiteConfig{
		Name:      cfg.Suite.Name,
		Device:    cfg.Suite.Device,
		OSVersion: cfg.Suite.OSVersion,
	}
	runner := orchestration.NewSuiteRunner(suiteCfg, probes,
		orchestration.WithProbeRunner(probe.NewRunner(
			probe.WithIterations(runIterations),
			probe.WithSampler(sampler),
		)),
		orchestration.WithSummaryBuilder(builder),
		orchestration.WithFilters(runFilters...),
	)

	out := cmd.OutOrStdout()
	console := newConsoleReporter(out, builder.Classifier(), suiteCfg, runQuiet)
	runner.OnProgress(console.listen)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hookRunner := newHookRunner(cfg, resultsDir, out)
	if err := hookRunner.Execute(ctx, hooks.BeforeRun, cfg.Hooks.BeforeRun); err != nil {
		return err
	}

	suite, runErr := runner.Run(ctx)
	if suite == nil {
		return runErr
	}

	// An interrupted run still exports what it measured.
	exporter := reporting.NewExporter(resultsDir, builder.Classifier(), formats...)
	artifacts, err := exporter.WriteAll(context.WithoutCancel(ctx), suite)
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	if !runQuiet {
		printArtifacts(out, artifacts)
	}
	if runErr != nil {
		return runErr
	}

	hookRunner.Vars.RunID = suite.RunID
	hookRunner.Vars.Timestamp = suite.Timestamp.Format(time.RFC3339)
	for _, a := range artifacts {
		if a.Format == reporting.FormatJSON {
			hookRunner.Vars.SuiteFile = a.Path
		}
	}
	if err := hookRunner.Execute(ctx, hooks.AfterRun, cfg.Hooks.AfterRun); err != nil {
		return err
	}

	if cfg.Paths.Keep > 0 {
		removed, err := results.Prune(cfg.Paths.Keep)
		if err != nil {
			return fmt.Errorf("pruning results: %w", err)
		}
		slog.Debug("pruned old results", "removed", removed, "keep", cfg.Paths.Keep)
	}

	printRunSummary(out, suite, resultsDir)

	var failures []error
	if suite.Summary.Failed > 0 {
		failures = append(failures, &ProbeFailureError{
			Message: fmt.Sprintf("benchmark completed with %d failed probe(s)", suite.Summary.Failed),
		})
	}

	if base != nil {
		opts := baseline.DefaultOptions()
		opts.TolerancePercent = runTolerance
		comparison := baseline.Compare(base, suite, builder.Classifier(), opts)
		fmt.Fprintln(out) //nolint:errcheck
		printComparisonTable(out, comparison)
		if runFailOnRegression && comparison.HasRegressions() {
			failures = append(failures, &ProbeFailureError{
				Message: fmt.Sprintf("%d probe(s) regressed against baseline %s", comparison.Regressions, base.RunID),
			})
		}
	}

	return errors.Join(failures...)
}

// newHookRunner runs hooks from the config file's directory, or the project
// path when no file was loaded. Hook output is hidden in quiet mode.
func newHookRunner(cfg *projectconfig.ProjectConfig, resultsDir string, out io.Writer) *hooks.Runner {
	dir := runProjectPath
	if cfg.Path != "" {
		dir = filepath.Dir(cfg.Path)
	}
	r := &hooks.Runner{
		Dir: dir,
		Vars: &template.Context{
			SuiteName:  cfg.Suite.Name,
			Device:     cfg.Suite.Device,
			OSVersion:  cfg.Suite.OSVersion,
			ResultsDir: resultsDir,
		},
	}
	if !runQuiet {
		r.Output = out
	}
	return r
}
