// Package projectconfig provides the ProjectConfig struct and loader for
// .perfbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/petprogress/perfbench/internal/hooks"
	"github.com/petprogress/perfbench/internal/recommend"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/tier"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".perfbench.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultResultsDir = "BenchmarkResults"
	DefaultKeep       = 0

	DefaultSuiteName = "MyTaskList Performance Suite"
	DefaultDevice    = "iPhone 15 Pro"
	DefaultOSVersion = "17.0"

	DefaultMemorySource = "rss"
)

// maxWalkUp bounds how many parent directories Load searches.
const maxWalkUp = 10

// PathsConfig holds output locations.
type PathsConfig struct {
	Results string `yaml:"results,omitempty"`
	// Keep is how many runs Prune retains after a run; 0 keeps everything.
	Keep int `yaml:"keep,omitempty"`
}

// SuiteConfig holds the descriptive fields stamped onto every suite.
type SuiteConfig struct {
	Name      string `yaml:"name,omitempty"`
	Device    string `yaml:"device,omitempty"`
	OSVersion string `yaml:"os_version,omitempty"`
}

// MemoryConfig selects the memory sampler.
type MemoryConfig struct {
	Source string `yaml:"source,omitempty"`
}

// ReportsConfig selects the export formats.
type ReportsConfig struct {
	Formats []string `yaml:"formats,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .perfbench.yaml.
type ProjectConfig struct {
	Paths           PathsConfig        `yaml:"paths,omitempty"`
	Suite           SuiteConfig        `yaml:"suite,omitempty"`
	Memory          MemoryConfig       `yaml:"memory,omitempty"`
	Thresholds      tier.Table         `yaml:"thresholds,omitempty"`
	Recommendations recommend.Rules    `yaml:"recommendations,omitempty"`
	Reports         ReportsConfig      `yaml:"reports,omitempty"`
	Probes          []catalog.Override `yaml:"probes,omitempty"`
	Hooks           hooks.HooksConfig  `yaml:"hooks,omitempty"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	formats := reporting.DefaultFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return &ProjectConfig{
		Paths: PathsConfig{
			Results: DefaultResultsDir,
			Keep:    DefaultKeep,
		},
		Suite: SuiteConfig{
			Name:      DefaultSuiteName,
			Device:    DefaultDevice,
			OSVersion: DefaultOSVersion,
		},
		Memory: MemoryConfig{
			Source: DefaultMemorySource,
		},
		Thresholds:      tier.DefaultTable(),
		Recommendations: recommend.DefaultRules(),
		Reports: ReportsConfig{
			Formats: names,
		},
	}
}

// Load finds .perfbench.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no project config found, using defaults", "start", startDir)
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return LoadFile(path)
}

// LoadFile reads one explicit configuration file and merges it onto the
// defaults.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := checkCutoffs(data); err != nil {
		return nil, fmt.Errorf("%s: recommendations: %w", path, err)
	}

	cfg := New()
	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: thresholds: %w", path, err)
	}
	slog.Debug("loaded project config", "path", path)
	return cfg, nil
}

// checkCutoffs rejects recommendation cutoffs that are set but not
// positive. A zero in Rules means "use the default", so an explicit zero
// in the file would otherwise be dropped without notice.
func checkCutoffs(data []byte) error {
	var raw struct {
		Recommendations struct {
			SlowDurationMs  *float64 `yaml:"slow_duration_ms"`
			HighMemoryMB    *float64 `yaml:"high_memory_mb"`
			HighCPUPercent  *float64 `yaml:"high_cpu_percent"`
			MaxNamedSlowOps *int     `yaml:"max_named_slow_ops"`
		} `yaml:"recommendations"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	r := raw.Recommendations
	for _, c := range []struct {
		name  string
		value *float64
	}{
		{"slow_duration_ms", r.SlowDurationMs},
		{"high_memory_mb", r.HighMemoryMB},
		{"high_cpu_percent", r.HighCPUPercent},
	} {
		if c.value != nil && *c.value <= 0 {
			return fmt.Errorf("%s must be greater than 0, got %v", c.name, *c.value)
		}
	}
	if r.MaxNamedSlowOps != nil && *r.MaxNamedSlowOps < 1 {
		return fmt.Errorf("max_named_slow_ops must be at least 1, got %d", *r.MaxNamedSlowOps)
	}
	return nil
}

// Find returns the path of the nearest .perfbench.yaml at or above dir.
// It returns os.ErrNotExist when there is none.
func Find(dir string) (string, error) {
	return findConfigFile(dir)
}

func findConfigFile(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxWalkUp {
		p := filepath.Join(dir, FileName)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst. Threshold metrics
// are replaced whole: a metric block present in the file wins over the
// default block for that metric.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}
	if src.Paths.Keep != 0 {
		dst.Paths.Keep = src.Paths.Keep
	}

	// Suite
	if src.Suite.Name != "" {
		dst.Suite.Name = src.Suite.Name
	}
	if src.Suite.Device != "" {
		dst.Suite.Device = src.Suite.Device
	}
	if src.Suite.OSVersion != "" {
		dst.Suite.OSVersion = src.Suite.OSVersion
	}

	// Memory
	if src.Memory.Source != "" {
		dst.Memory.Source = src.Memory.Source
	}

	// Thresholds
	if src.Thresholds.Duration != (tier.Thresholds{}) {
		dst.Thresholds.Duration = src.Thresholds.Duration
	}
	if src.Thresholds.Memory != (tier.Thresholds{}) {
		dst.Thresholds.Memory = src.Thresholds.Memory
	}
	if src.Thresholds.CPU != (tier.Thresholds{}) {
		dst.Thresholds.CPU = src.Thresholds.CPU
	}

	// Recommendations
	if src.Recommendations.SlowDurationMs != 0 {
		dst.Recommendations.SlowDurationMs = src.Recommendations.SlowDurationMs
	}
	if src.Recommendations.HighMemoryMB != 0 {
		dst.Recommendations.HighMemoryMB = src.Recommendations.HighMemoryMB
	}
	if src.Recommendations.HighCPUPercent != 0 {
		dst.Recommendations.HighCPUPercent = src.Recommendations.HighCPUPercent
	}
	if src.Recommendations.MaxNamedSlowOps != 0 {
		dst.Recommendations.MaxNamedSlowOps = src.Recommendations.MaxNamedSlowOps
	}

	// Reports
	if len(src.Reports.Formats) > 0 {
		dst.Reports.Formats = src.Reports.Formats
	}

	// Probes
	if len(src.Probes) > 0 {
		dst.Probes = src.Probes
	}

	// Hooks
	if len(src.Hooks.BeforeRun) > 0 {
		dst.Hooks.BeforeRun = src.Hooks.BeforeRun
	}
	if len(src.Hooks.AfterRun) > 0 {
		dst.Hooks.AfterRun = src.Hooks.AfterRun
	}
}
