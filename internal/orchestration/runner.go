package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/probe"
	"github.com/petprogress/perfbench/internal/summary"
)

// SuiteConfig holds the run metadata recorded on the suite.
type SuiteConfig struct {
	Name      string
	Device    string
	OSVersion string
}

// SuiteRunner runs a probe catalog and assembles the suite.
type SuiteRunner struct {
	cfg     SuiteConfig
	probes  []catalog.Probe
	runner  *probe.Runner
	builder *summary.Builder

	now   func() time.Time
	newID func() string

	// Name filtering
	filters []string

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventSuiteStart    EventType = "suite_start"
	EventSuiteComplete EventType = "suite_complete"
	EventSuiteStopped  EventType = "suite_stopped"
	EventCategoryStart EventType = "category_start"
	EventProbeStart    EventType = "probe_start"
	EventProbeComplete EventType = "probe_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	RunID       string
	Category    catalog.Category
	ProbeName   string
	ProbeNum    int
	TotalProbes int
	Sample      *models.Sample
	DurationMs  float64
	Details     map[string]any
}

// RunnerOption configures a SuiteRunner.
type RunnerOption func(*SuiteRunner)

// WithProbeRunner replaces the default probe runner.
func WithProbeRunner(pr *probe.Runner) RunnerOption {
	return func(r *SuiteRunner) {
		r.runner = pr
	}
}

// WithSummaryBuilder replaces the default summary builder.
func WithSummaryBuilder(b *summary.Builder) RunnerOption {
	return func(r *SuiteRunner) {
		r.builder = b
	}
}

// WithFilters sets glob patterns matched against probe names and
// categories. Only matching probes run.
func WithFilters(patterns ...string) RunnerOption {
	return func(r *SuiteRunner) {
		r.filters = patterns
	}
}

// NewSuiteRunner creates a runner for the given probes.
func NewSuiteRunner(cfg SuiteConfig, probes []catalog.Probe, opts ...RunnerOption) *SuiteRunner {
	r := &SuiteRunner{
		cfg:       cfg,
		probes:    probes,
		now:       time.Now,
		newID:     uuid.NewString,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.runner == nil {
		r.runner = probe.NewRunner()
	}
	if r.builder == nil {
		r.builder = summary.NewBuilder(nil, nil)
	}
	return r
}

// OnProgress registers a progress listener
func (r *SuiteRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *SuiteRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

type plannedProbe struct {
	catalog.Probe
	work probe.Work
}

// plan orders and filters the probes and builds every body up front, so
// configuration errors surface before anything runs.
func (r *SuiteRunner) plan() ([]plannedProbe, error) {
	probes, err := FilterProbes(catalog.Ordered(r.probes), r.filters)
	if err != nil {
		return nil, err
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("no probes to run")
	}

	planned := make([]plannedProbe, 0, len(probes))
	for _, p := range probes {
		work, err := catalog.Build(p)
		if err != nil {
			return nil, err
		}
		planned = append(planned, plannedProbe{Probe: p, work: work})
	}
	return planned, nil
}

// Run executes every probe sequentially in category order and returns the
// finished suite. A failing probe never stops the run.
//
// ctx is only checked between probes; a probe that hangs blocks the run. When
// ctx is cancelled the suite built from the probes that finished is returned
// together with the context error.
func (r *SuiteRunner) Run(ctx context.Context) (*models.Suite, error) {
	planned, err := r.plan()
	if err != nil {
		return nil, err
	}

	suite := &models.Suite{
		RunID:     r.newID(),
		Name:      r.cfg.Name,
		Timestamp: r.now(),
		Device:    r.cfg.Device,
		OSVersion: r.cfg.OSVersion,
		Results:   make([]models.Sample, 0, len(planned)),
	}

	slog.Debug("starting suite", "run_id", suite.RunID, "name", suite.Name, "probes", len(planned))

	r.notifyProgress(ProgressEvent{
		EventType:   EventSuiteStart,
		RunID:       suite.RunID,
		TotalProbes: len(planned),
	})

	start := time.Now()
	var current catalog.Category
	var runErr error

	for i, p := range planned {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("suite interrupted after %d of %d probes: %w", i, len(planned), err)
			r.notifyProgress(ProgressEvent{
				EventType:   EventSuiteStopped,
				RunID:       suite.RunID,
				ProbeNum:    i,
				TotalProbes: len(planned),
				Details:     map[string]any{"reason": err.Error()},
			})
			break
		}

		if p.Category != current {
			current = p.Category
			r.notifyProgress(ProgressEvent{
				EventType:   EventCategoryStart,
				RunID:       suite.RunID,
				Category:    current,
				ProbeNum:    i + 1,
				TotalProbes: len(planned),
			})
		}

		r.notifyProgress(ProgressEvent{
			EventType:   EventProbeStart,
			RunID:       suite.RunID,
			Category:    p.Category,
			ProbeName:   p.Name,
			ProbeNum:    i + 1,
			TotalProbes: len(planned),
		})

		sample := r.runner.Run(p.Name, p.work)
		sample.Category = string(p.Category)
		suite.Results = append(suite.Results, sample)

		r.notifyProgress(ProgressEvent{
			EventType:   EventProbeComplete,
			RunID:       suite.RunID,
			Category:    p.Category,
			ProbeName:   p.Name,
			ProbeNum:    i + 1,
			TotalProbes: len(planned),
			Sample:      &sample,
			DurationMs:  sample.DurationMs,
		})
	}

	suite.TotalDurationMs = float64(time.Since(start).Nanoseconds()) / 1e6
	suite.Summary = r.builder.Build(suite.Results, suite.TotalDurationMs)

	r.notifyProgress(ProgressEvent{
		EventType:   EventSuiteComplete,
		RunID:       suite.RunID,
		TotalProbes: len(planned),
		DurationMs:  suite.TotalDurationMs,
		Details: map[string]any{
			"successful": suite.Summary.Successful,
			"failed":     suite.Summary.Failed,
		},
	})

	return suite, runErr
}
