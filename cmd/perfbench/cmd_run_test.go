package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRunGlobals() {
	runProjectPath = "."
	runResultsDir = ""
	runSuiteName = ""
	runDevice = ""
	runOSVersion = ""
	runConfigPath = ""
	runFormats = nil
	runBaseline = ""
	runMemorySource = ""
	runQuiet = false
	runFilters = nil
	runKeep = 0
	runIterations = 0
	runTolerance = 0
	runFailOnRegression = false
}

func executeRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetRunGlobals()

	var out bytes.Buffer
	cmd := newRunCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// quickRunArgs keeps runs short: one probe, one iteration, no /proc reads.
func quickRunArgs(dir string, extra ...string) []string {
	args := []string{
		"--project-path", dir,
		"--filter", "SharedStore_Initialization",
		"--iterations", "1",
		"--memory-source", "synthetic",
	}
	return append(args, extra...)
}

func writeSuiteFile(t *testing.T, dir string, suite *models.Suite) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, reporting.FileName(reporting.FormatJSON, suite.Timestamp))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, reporting.WriteJSON(f, suite))
	return path
}

func savedSuite(runID string, ts time.Time, durationMs float64) *models.Suite {
	sample := models.Sample{
		Name:       "SharedStore_Initialization",
		Category:   "core",
		DurationMs: durationMs,
		Durations:  []float64{durationMs, durationMs, durationMs, durationMs, durationMs},
		MemoryMB:   0.5,
		CPUPercent: durationMs / 10,
		Success:    true,
	}
	return &models.Suite{
		RunID:     runID,
		Name:      "Saved",
		Timestamp: ts,
		Device:    "iPhone 15 Pro",
		OSVersion: "17.0",
		Results:   []models.Sample{sample},
		Summary:   models.Summary{TotalTests: 1, Successful: 1, SuccessRate: 100},
	}
}

func TestRunCommand_WritesSelectedReports(t *testing.T) {
	dir := t.TempDir()

	out, err := executeRun(t, quickRunArgs(dir, "--format", "json", "--format", "csv", "--device", "Pixel 8")...)
	require.NoError(t, err)

	assert.Contains(t, out, "🚀 Starting benchmark suite: MyTaskList Performance Suite")
	assert.Contains(t, out, "📱 Device: Pixel 8")
	assert.Contains(t, out, "⚡ Running core performance benchmarks...")
	assert.Contains(t, out, "SharedStore_Initialization:")
	assert.Contains(t, out, "🎉 Benchmark completed successfully!")

	resultsDir := filepath.Join(dir, "BenchmarkResults")
	jsonFiles, err := filepath.Glob(filepath.Join(resultsDir, "benchmark_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonFiles, 1)
	csvFiles, err := filepath.Glob(filepath.Join(resultsDir, "benchmark_summary_*.csv"))
	require.NoError(t, err)
	assert.Len(t, csvFiles, 1)
	mdFiles, err := filepath.Glob(filepath.Join(resultsDir, "*.md"))
	require.NoError(t, err)
	assert.Empty(t, mdFiles)

	suite, err := reporting.LoadSuite(jsonFiles[0])
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", suite.Device)
	assert.NotEmpty(t, suite.RunID)
	require.Len(t, suite.Results, 1)
	assert.True(t, suite.Results[0].Success)
	assert.Equal(t, "core", suite.Results[0].Category)
	assert.Equal(t, models.MemorySourceSynthetic, suite.Results[0].Metadata.MemorySource)
	assert.Equal(t, 1, suite.Results[0].Metadata.Iterations)
	assert.Equal(t, 100.0, suite.Summary.SuccessRate)
}

func TestRunCommand_QuietOnlyPrintsSummary(t *testing.T) {
	dir := t.TempDir()

	out, err := executeRun(t, quickRunArgs(dir, "--format", "json", "--quiet")...)
	require.NoError(t, err)

	assert.NotContains(t, out, "Starting benchmark suite")
	assert.NotContains(t, out, "SharedStore_Initialization:")
	assert.Contains(t, out, "✅ Success Rate: 100.0%")
}

func TestRunCommand_FailedProbeIsProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`probes:
  - name: Network_Health
    category: network
    kind: http
    params:
      url: %s
`, srv.URL)), 0o644))

	out, err := executeRun(t,
		"--project-path", dir,
		"--config", configPath,
		"--filter", "Network_Health",
		"--iterations", "1",
		"--memory-source", "synthetic",
		"--format", "json",
	)
	require.Error(t, err)

	var probeErr *ProbeFailureError
	assert.True(t, errors.As(err, &probeErr), "expected ProbeFailureError, got %v", err)
	assert.Equal(t, ExitProbeFailed, exitCode(err))
	assert.Contains(t, out, "❌ Network_Health: FAILED - ")
	assert.Contains(t, out, "got status 503, want 200")
	assert.Contains(t, out, "Benchmark completed with 1 failed probe(s)")
}

func TestRunCommand_ConfigErrorsExitTwo(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "pdf"}},
		{"unknown memory source", []string{"--memory-source", "heap"}},
		{"missing config", []string{"--config", "/nonexistent/.perfbench.yaml"}},
		{"no baseline yet", []string{"--baseline", "latest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := executeRun(t, quickRunArgs(dir, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitError, exitCode(err))
		})
	}
}

func TestRunCommand_FilterMatchesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := executeRun(t,
		"--project-path", dir,
		"--filter", "Nope_*",
		"--iterations", "1",
		"--memory-source", "synthetic",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no probes to run")
	assert.Equal(t, ExitError, exitCode(err))

	_, statErr := os.Stat(filepath.Join(dir, "BenchmarkResults"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing should be written")
}

func TestRunCommand_BaselineLatestAndKeep(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "BenchmarkResults")
	oldPath := writeSuiteFile(t, resultsDir, savedSuite("old-run", time.Date(2020, 1, 2, 3, 4, 5, 0, time.Local), 1.0))

	out, err := executeRun(t, quickRunArgs(dir, "--format", "json", "--baseline", "latest", "--keep", "1", "--tolerance", "1000")...)
	require.NoError(t, err)

	assert.Contains(t, out, "BASELINE COMPARISON")
	assert.Contains(t, out, "baseline: old-run")

	_, statErr := os.Stat(oldPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "older run should have been pruned")

	entries, err := store.New(resultsDir).List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunCommand_FailOnRegression(t *testing.T) {
	dir := t.TempDir()
	basePath := writeSuiteFile(t, filepath.Join(dir, "baselines"),
		savedSuite("fast-run", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), 0.001))

	out, err := executeRun(t, quickRunArgs(dir, "--format", "json", "--baseline", basePath, "--fail-on-regression")...)
	require.Error(t, err)

	var probeErr *ProbeFailureError
	require.True(t, errors.As(err, &probeErr), "expected ProbeFailureError, got %v", err)
	assert.Contains(t, err.Error(), "regressed against baseline fast-run")
	assert.Contains(t, out, "regressed")
}

func TestRunCommand_Hooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands are POSIX")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".perfbench.yaml"), []byte(`hooks:
  before_run:
    - command: touch before.marker
  after_run:
    - command: printenv PERFBENCH_SUITE_FILE
    - command: echo device={{.Device}}
`), 0o644))

	out, err := executeRun(t, quickRunArgs(dir, "--format", "json")...)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "before.marker"))
	assert.NoError(t, statErr, "before_run hook should run in the config directory")
	assert.Contains(t, out, "[hook:after_run] "+filepath.Join(dir, "BenchmarkResults", "benchmark_"))
	assert.Contains(t, out, "[hook:after_run] device=iPhone")
}

func TestRunCommand_FatalBeforeRunHookStopsRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands are POSIX")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".perfbench.yaml"), []byte(`hooks:
  before_run:
    - command: "false"
      error_on_fail: true
`), 0o644))

	_, err := executeRun(t, quickRunArgs(dir, "--format", "json")...)
	require.Error(t, err)
	assert.Equal(t, ExitError, exitCode(err))
	assert.Contains(t, err.Error(), "before_run[0]")

	_, statErr := os.Stat(filepath.Join(dir, "BenchmarkResults"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no results should be written")
}
