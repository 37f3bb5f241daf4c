package main

import (
	"fmt"
	"log/slog"

	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/petprogress/perfbench/internal/recommend"
	"github.com/petprogress/perfbench/internal/summary"
	"github.com/petprogress/perfbench/internal/tier"
	"github.com/petprogress/perfbench/internal/utils"
)

// loadProjectConfig reads the explicit config file when one is given, and
// otherwise searches upward from projectPath.
func loadProjectConfig(projectPath, configPath string) (*projectconfig.ProjectConfig, error) {
	if configPath != "" {
		return projectconfig.LoadFile(configPath)
	}
	cfg, err := projectconfig.Load(projectPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		slog.Debug("using project config", "path", cfg.Path)
	}
	return cfg, nil
}

// resolveResultsDir anchors a relative results directory at the project path.
func resolveResultsDir(projectPath, resultsDir string) string {
	return utils.ResolvePath(resultsDir, projectPath)
}

// effectiveProbes is the default catalog with the config's overrides applied.
func effectiveProbes(cfg *projectconfig.ProjectConfig) ([]catalog.Probe, error) {
	probes, err := catalog.Merge(catalog.Default(), cfg.Probes)
	if err != nil {
		return nil, fmt.Errorf("applying probe overrides: %w", err)
	}
	if err := catalog.Validate(probes); err != nil {
		return nil, fmt.Errorf("invalid probe catalog: %w", err)
	}
	return probes, nil
}

// newSummaryBuilder wires the configured thresholds and recommendation rules.
func newSummaryBuilder(cfg *projectconfig.ProjectConfig) (*summary.Builder, error) {
	classifier, err := tier.New(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return summary.NewBuilder(classifier, recommend.NewEngineWithRules(cfg.Recommendations)), nil
}
