// Package webapi serves saved benchmark suites as a JSON API, with HTML
// reports and Prometheus metrics for the newest run.
package webapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/petprogress/perfbench/internal/baseline"
	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/reporting"
	"github.com/petprogress/perfbench/internal/store"
	"github.com/petprogress/perfbench/internal/tier"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store      RunStore
	classifier *tier.Classifier
}

// NewHandlers creates a new Handlers with the given store. A nil classifier
// uses the default thresholds.
func NewHandlers(runs RunStore, classifier *tier.Classifier) *Handlers {
	if classifier == nil {
		classifier = tier.NewDefault()
	}
	return &Handlers{store: runs, classifier: classifier}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleSummary returns aggregate KPI metrics across all runs.
func (h *Handlers) HandleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.store.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleRuns returns a list of all runs, with optional sort/order query params.
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	sortField := r.URL.Query().Get("sort")
	order := r.URL.Query().Get("order")

	runs, err := h.store.ListRuns(sortField, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleRunDetail returns one run with per-probe results and tiers.
func (h *Handlers) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	id, suite, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, suiteToDetail(id, suite, h.classifier))
}

// HandleCompare compares a run against ?baseline=<id>, or against the run
// saved before it when no baseline is given.
func (h *Handlers) HandleCompare(w http.ResponseWriter, r *http.Request) {
	id, current, ok := h.lookup(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var base *models.Suite
	var err error
	if ref := q.Get("baseline"); ref != "" {
		_, base, err = h.store.GetRun(ref)
	} else {
		base, err = h.store.Previous(id)
	}
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "baseline run not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	opts := baseline.DefaultOptions()
	if v := q.Get("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol < 0 {
			writeError(w, http.StatusBadRequest, "tolerance must be a non-negative number")
			return
		}
		opts.TolerancePercent = tol
	}
	writeJSON(w, http.StatusOK, baseline.Compare(base, current, h.classifier, opts))
}

// HandleReport renders a run as the standalone HTML report.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	_, suite, ok := h.lookup(w, r)
	if !ok {
		return
	}
	page, err := reporting.RenderHTML(suite, h.classifier)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page) //nolint:errcheck
}

// HandleMetrics exposes the newest run in the Prometheus exposition format.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	_, suite, err := h.store.GetRun(store.LatestRef)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "no saved runs")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	registry := reporting.CollectSuiteMetrics(suite).Registry
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// lookup resolves the {id} path value, writing the error response itself
// when the run cannot be found.
func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (string, *models.Suite, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "run id is required")
		return "", nil, false
	}

	canonical, suite, err := h.store.GetRun(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return "", nil, false
	}
	return canonical, suite, true
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, runs RunStore, classifier *tier.Classifier) {
	h := NewHandlers(runs, classifier)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/runs", h.HandleRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.HandleRunDetail)
	mux.HandleFunc("GET /api/runs/{id}/compare", h.HandleCompare)
	mux.HandleFunc("GET /runs/{id}/report", h.HandleReport)
	mux.HandleFunc("GET /metrics", h.HandleMetrics)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
