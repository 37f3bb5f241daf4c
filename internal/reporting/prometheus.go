package reporting

import (
	"fmt"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "perfbench"

// SuiteMetrics holds the gauges exported for one suite in the Prometheus
// textfile format. Each suite gets its own registry.
type SuiteMetrics struct {
	Registry *prometheus.Registry

	ProbeDuration *prometheus.GaugeVec
	ProbeMemory   *prometheus.GaugeVec
	ProbeCPU      *prometheus.GaugeVec
	ProbeSuccess  *prometheus.GaugeVec
	SuiteSuccess  prometheus.Gauge
	SuiteDuration prometheus.Gauge
	TierTotal     *prometheus.GaugeVec
}

func newSuiteMetrics() *SuiteMetrics {
	probeLabels := []string{"probe", "category"}

	m := &SuiteMetrics{
		Registry: prometheus.NewRegistry(),
		ProbeDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "probe",
			Name:      "duration_ms",
			Help:      "Mean iteration duration of a probe in milliseconds",
		}, probeLabels),
		ProbeMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "probe",
			Name:      "memory_mb",
			Help:      "Memory delta across a probe's iterations in megabytes",
		}, probeLabels),
		ProbeCPU: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "probe",
			Name:      "cpu_percent",
			Help:      "Approximate CPU percentage of a probe",
		}, probeLabels),
		ProbeSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "probe",
			Name:      "success",
			Help:      "1 if the probe completed every iteration, 0 otherwise",
		}, probeLabels),
		SuiteSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "suite",
			Name:      "success_rate",
			Help:      "Percentage of probes that succeeded",
		}),
		SuiteDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "suite",
			Name:      "duration_ms",
			Help:      "Wall-clock duration of the whole suite in milliseconds",
		}),
		TierTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "suite",
			Name:      "tier_total",
			Help:      "Number of successful probes per performance tier",
		}, []string{"tier"}),
	}

	m.Registry.MustRegister(
		m.ProbeDuration,
		m.ProbeMemory,
		m.ProbeCPU,
		m.ProbeSuccess,
		m.SuiteSuccess,
		m.SuiteDuration,
		m.TierTotal,
	)
	return m
}

// CollectSuiteMetrics fills a fresh registry with the suite's values.
func CollectSuiteMetrics(suite *models.Suite) *SuiteMetrics {
	m := newSuiteMetrics()

	for _, s := range suite.Results {
		labels := prometheus.Labels{"probe": s.Name, "category": s.Category}
		m.ProbeDuration.With(labels).Set(s.DurationMs)
		m.ProbeMemory.With(labels).Set(s.MemoryMB)
		m.ProbeCPU.With(labels).Set(s.CPUPercent)

		success := 0.0
		if s.Success {
			success = 1
		}
		m.ProbeSuccess.With(labels).Set(success)
	}

	m.SuiteSuccess.Set(suite.Summary.SuccessRate)
	m.SuiteDuration.Set(suite.TotalDurationMs)
	for _, t := range models.Tiers {
		m.TierTotal.WithLabelValues(t.String()).Set(float64(suite.Summary.Categories.Count(t)))
	}

	return m
}

// WritePrometheusTextfile writes the suite metrics to path for the node
// exporter textfile collector.
func WritePrometheusTextfile(path string, suite *models.Suite) error {
	if err := prometheus.WriteToTextfile(path, CollectSuiteMetrics(suite).Registry); err != nil {
		return fmt.Errorf("writing prometheus textfile: %w", err)
	}
	return nil
}
