package webapi

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/store"
	"github.com/petprogress/perfbench/internal/tier"
)

// ErrRunNotFound is returned when a run ID does not match any stored run.
var ErrRunNotFound = errors.New("run not found")

// RunStore provides access to saved benchmark suites.
type RunStore interface {
	// ListRuns returns all runs, sorted by the given field and order.
	ListRuns(sortField, order string) ([]RunSummary, error)
	// GetRun returns one suite by run ID, file stamp or "latest", along
	// with the run's canonical ID.
	GetRun(id string) (string, *models.Suite, error)
	// Previous returns the run saved just before id, or ErrRunNotFound.
	Previous(id string) (*models.Suite, error)
	// Summary returns aggregate metrics across all runs.
	Summary() (*SummaryResponse, error)
}

type storedRun struct {
	id    string
	stamp string
	suite *models.Suite
}

// FileStore serves the suites saved in a results directory. It reloads
// whenever the set of saved runs on disk changes.
type FileStore struct {
	results *store.Store

	mu    sync.RWMutex
	runs  []storedRun // oldest first
	stamp string      // newest stamp at load time
	count int
}

// NewFileStore creates a FileStore that reads results from dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{results: store.New(dir)}
}

// ensureLoaded reloads the runs when files were added or pruned since the
// last load.
func (fs *FileStore) ensureLoaded() error {
	entries, err := fs.results.List()
	if err != nil {
		return err
	}

	newest := ""
	if len(entries) > 0 {
		newest = entries[len(entries)-1].Stamp
	}

	fs.mu.RLock()
	fresh := fs.count == len(entries) && fs.stamp == newest && fs.runs != nil
	fs.mu.RUnlock()
	if fresh {
		return nil
	}

	runs := make([]storedRun, 0, len(entries))
	for _, e := range entries {
		suite, err := reporting.LoadSuite(e.Path)
		if err != nil {
			slog.Warn("skipping unreadable suite", "path", e.Path, "error", err)
			continue
		}
		runs = append(runs, storedRun{id: runID(suite, e.Stamp), stamp: e.Stamp, suite: suite})
	}

	fs.mu.Lock()
	fs.runs = runs
	fs.stamp = newest
	fs.count = len(entries)
	fs.mu.Unlock()
	return nil
}

// Reload forces a fresh reload of all result files from disk.
func (fs *FileStore) Reload() error {
	fs.mu.Lock()
	fs.runs = nil
	fs.mu.Unlock()
	return fs.ensureLoaded()
}

func (fs *FileStore) indexOf(id string) int {
	if id == store.LatestRef {
		return len(fs.runs) - 1
	}
	for i, r := range fs.runs {
		if r.id == id || r.stamp == id {
			return i
		}
	}
	return -1
}

// ListRuns returns all runs sorted by the given field and order.
func (fs *FileStore) ListRuns(sortField, order string) ([]RunSummary, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	runs := make([]RunSummary, 0, len(fs.runs))
	for _, r := range fs.runs {
		runs = append(runs, suiteToSummary(r.id, r.suite))
	}

	sortRuns(runs, sortField, order)
	return runs, nil
}

// GetRun returns a single suite and its canonical ID.
func (fs *FileStore) GetRun(id string) (string, *models.Suite, error) {
	if err := fs.ensureLoaded(); err != nil {
		return "", nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	i := fs.indexOf(id)
	if i < 0 {
		return "", nil, ErrRunNotFound
	}
	return fs.runs[i].id, fs.runs[i].suite, nil
}

// Previous returns the suite saved immediately before id.
func (fs *FileStore) Previous(id string) (*models.Suite, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	i := fs.indexOf(id)
	if i < 1 {
		return nil, ErrRunNotFound
	}
	return fs.runs[i-1].suite, nil
}

// Summary returns aggregate metrics across all runs.
func (fs *FileStore) Summary() (*SummaryResponse, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	resp := &SummaryResponse{}
	if len(fs.runs) == 0 {
		return resp, nil
	}

	totalProbes := 0
	totalSucceeded := 0
	totalDuration := 0.0

	for _, r := range fs.runs {
		resp.TotalRuns++
		totalProbes += r.suite.Summary.TotalTests
		totalSucceeded += r.suite.Summary.Successful
		totalDuration += r.suite.TotalDurationMs
	}

	resp.TotalProbes = totalProbes
	if totalProbes > 0 {
		resp.SuccessRate = float64(totalSucceeded) / float64(totalProbes) * 100.0
	}
	resp.AvgDurationMs = totalDuration / float64(resp.TotalRuns)

	latest := fs.runs[len(fs.runs)-1]
	resp.LatestRunID = latest.id
	ts := latest.suite.Timestamp
	resp.LatestTimestamp = &ts

	return resp, nil
}

func suiteToSummary(id string, s *models.Suite) RunSummary {
	outcome := "passed"
	if s.Summary.Failed > 0 {
		outcome = "failed"
	}

	avg := 0.0
	if s.Summary.Performance != nil {
		avg = s.Summary.Performance.AvgDurationMs
	}

	return RunSummary{
		ID:              id,
		Name:            s.Name,
		Device:          s.Device,
		OSVersion:       s.OSVersion,
		Outcome:         outcome,
		ProbeCount:      s.Summary.TotalTests,
		FailedCount:     s.Summary.Failed,
		SuccessRate:     s.Summary.SuccessRate,
		AvgDurationMs:   avg,
		TotalDurationMs: s.TotalDurationMs,
		Timestamp:       s.Timestamp,
	}
}

func suiteToDetail(id string, s *models.Suite, classifier *tier.Classifier) *RunDetail {
	detail := &RunDetail{
		RunSummary:      suiteToSummary(id, s),
		Samples:         make([]SampleResult, 0, len(s.Results)),
		Tiers:           make(map[string]int, len(models.Tiers)),
		Recommendations: s.Summary.Recommendations,
	}

	for _, sample := range s.Results {
		r := SampleResult{
			Name:       sample.Name,
			Category:   sample.Category,
			DurationMs: sample.DurationMs,
			MemoryMB:   sample.MemoryMB,
			CPUPercent: sample.CPUPercent,
			Success:    sample.Success,
			Error:      sample.Error,
		}
		if sample.Success {
			r.Tier = classifier.Classify(sample).String()
		}
		detail.Samples = append(detail.Samples, r)
	}
	for _, t := range models.Tiers {
		detail.Tiers[t.String()] = s.Summary.Categories.Count(t)
	}
	if detail.Recommendations == nil {
		detail.Recommendations = []string{}
	}

	return detail
}

func sortRuns(runs []RunSummary, field, order string) {
	less := func(i, j int) bool {
		switch field {
		case "duration":
			return runs[i].TotalDurationMs < runs[j].TotalDurationMs
		case "success_rate":
			return runs[i].SuccessRate < runs[j].SuccessRate
		case "name":
			return runs[i].Name < runs[j].Name
		default: // "timestamp" or empty
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
	}

	if order == "asc" {
		sort.SliceStable(runs, less)
	} else {
		sort.SliceStable(runs, func(i, j int) bool { return less(j, i) })
	}
}

// Ensure FileStore satisfies RunStore.
var _ RunStore = (*FileStore)(nil)
