package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/petprogress/perfbench/internal/baseline"
	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/orchestration"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/spinner"
	"github.com/petprogress/perfbench/internal/tier"
)

var categoryBanners = map[catalog.Category]string{
	catalog.CategoryCore:    "⚡ Running core performance benchmarks...",
	catalog.CategoryMemory:  "🧠 Running memory performance benchmarks...",
	catalog.CategoryUI:      "🎨 Running UI performance benchmarks...",
	catalog.CategoryNetwork: "🌐 Running network performance benchmarks...",
	catalog.CategoryAI:      "🤖 Running AI/ML performance benchmarks...",
}

var artifactLabels = map[reporting.Format]string{
	reporting.FormatJSON:       "📊 Results saved to",
	reporting.FormatCSV:        "📈 Summary saved to",
	reporting.FormatHTML:       "📄 HTML report:",
	reporting.FormatMarkdown:   "📝 Markdown report:",
	reporting.FormatJUnit:      "🧪 JUnit report:",
	reporting.FormatPrometheus: "📉 Prometheus metrics:",
}

// consoleReporter turns suite progress events into console lines.
type consoleReporter struct {
	w          io.Writer
	classifier *tier.Classifier
	suite      orchestration.SuiteConfig
	quiet      bool
	animate    bool

	spin *spinner.Spinner
}

func newConsoleReporter(w io.Writer, classifier *tier.Classifier, suite orchestration.SuiteConfig, quiet bool) *consoleReporter {
	return &consoleReporter{
		w:          w,
		classifier: classifier,
		suite:      suite,
		quiet:      quiet,
		animate:    !quiet && spinner.IsTerminal(w),
	}
}

// listen prints one progress event.
//
//nolint:errcheck
func (r *consoleReporter) listen(event orchestration.ProgressEvent) {
	if r.quiet {
		return
	}
	switch event.EventType {
	case orchestration.EventSuiteStart:
		fmt.Fprintf(r.w, "🚀 Starting benchmark suite: %s\n", r.suite.Name)
		fmt.Fprintf(r.w, "📱 Device: %s\n", r.suite.Device)
		fmt.Fprintf(r.w, "🔢 OS Version: %s\n", r.suite.OSVersion)
	case orchestration.EventCategoryStart:
		if banner, ok := categoryBanners[event.Category]; ok {
			fmt.Fprintln(r.w, banner)
		}
	case orchestration.EventProbeStart:
		if r.animate {
			r.spin = spinner.Start(r.w, fmt.Sprintf("[%d/%d] %s", event.ProbeNum, event.TotalProbes, event.ProbeName))
		}
	case orchestration.EventProbeComplete:
		r.stopSpinner()
		if event.Sample != nil {
			fmt.Fprintln(r.w, formatSampleLine(*event.Sample, r.classifier))
		}
	case orchestration.EventSuiteStopped:
		r.stopSpinner()
		fmt.Fprintf(r.w, "⏹️  Benchmark interrupted after %d of %d probes\n", event.ProbeNum, event.TotalProbes)
	case orchestration.EventSuiteComplete:
		fmt.Fprintf(r.w, "✅ Benchmark suite completed in %.2fms\n", event.DurationMs)
	}
}

func (r *consoleReporter) stopSpinner() {
	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}
}

// formatSampleLine renders one probe result the way the run loop prints it.
func formatSampleLine(s models.Sample, classifier *tier.Classifier) string {
	if !s.Success {
		return fmt.Sprintf("  ❌ %s: FAILED - %s", s.Name, s.Error)
	}
	return fmt.Sprintf("  %s %s: %.2fms, %.2fMB, %.1f%% CPU",
		reporting.TierEmoji(classifier.Classify(s)), s.Name, s.DurationMs, s.MemoryMB, s.CPUPercent)
}

//nolint:errcheck
func printArtifacts(w io.Writer, artifacts []reporting.Artifact) {
	for _, a := range artifacts {
		fmt.Fprintf(w, "%s %s\n", artifactLabels[a.Format], a.Path)
	}
}

// printRunSummary prints the closing lines of a run.
//
//nolint:errcheck
func printRunSummary(w io.Writer, suite *models.Suite, resultsDir string) {
	fmt.Fprintln(w)
	if suite.Summary.Failed == 0 {
		fmt.Fprintln(w, "🎉 Benchmark completed successfully!")
	} else {
		fmt.Fprintf(w, "⚠️  Benchmark completed with %d failed probe(s)\n", suite.Summary.Failed)
	}
	fmt.Fprintf(w, "📊 Results saved to: %s\n", resultsDir)
	fmt.Fprintf(w, "✅ Success Rate: %.1f%%\n", suite.Summary.SuccessRate)
	if perf := suite.Summary.Performance; perf != nil {
		fmt.Fprintf(w, "⚡ Average Performance: %.2fms\n", perf.AvgDurationMs)
	}
}

var statusIcons = map[baseline.Status]string{
	baseline.StatusRegressed: "🔺",
	baseline.StatusImproved:  "🔻",
	baseline.StatusUnchanged: "=",
	baseline.StatusNew:       "✨",
	baseline.StatusMissing:   "❓",
}

// printComparisonTable writes a fixed-width per-probe comparison.
//
//nolint:errcheck
func printComparisonTable(w io.Writer, c *baseline.Comparison) {
	fmt.Fprintln(w, strings.Repeat("=", 96))
	fmt.Fprintln(w, " BASELINE COMPARISON")
	fmt.Fprintln(w, strings.Repeat("=", 96))
	fmt.Fprintf(w, "  baseline: %s\n  current:  %s\n  tolerance: ±%.1f%%\n\n",
		c.BaselineRunID, c.CurrentRunID, c.TolerancePercent)

	fmt.Fprintf(w, "  %s %s %s %s %s %s\n",
		padRight("Probe", 34), padRight("Base ms", 10), padRight("Cur ms", 10),
		padRight("Δ%", 9), padRight("Tier", 24), "Status")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 94))

	for _, d := range c.Deltas {
		tierCol := d.CurrentLabel
		if d.BaselineLabel != "" && d.CurrentLabel != "" && d.BaselineLabel != d.CurrentLabel {
			tierCol = d.BaselineLabel + " → " + d.CurrentLabel
		} else if d.CurrentLabel == "" {
			tierCol = d.BaselineLabel
		}
		delta := "-"
		if d.Status != baseline.StatusNew && d.Status != baseline.StatusMissing {
			delta = fmt.Sprintf("%+.1f", d.DeltaPercent)
		}
		fmt.Fprintf(w, "  %s %s %s %s %s %s %s\n",
			padRight(truncateName(d.Name, 34), 34),
			padRight(fmt.Sprintf("%.2f", d.BaselineDuration), 10),
			padRight(fmt.Sprintf("%.2f", d.CurrentDuration), 10),
			padRight(delta, 9),
			padRight(tierCol, 24),
			statusIcons[d.Status], d.Status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Success rate delta: %+.1f%%\n", c.SuccessRateDelta)
	fmt.Fprintf(w, "  Regressions: %d  Improvements: %d\n", c.Regressions, c.Improvements)
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
