package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizeRuns counts optimization runs by backend and outcome.
	OptimizeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_runs_total", Help: "Optimization runs by algorithm and status."},
		[]string{"algorithm", "status"},
	)
	// OptimizeIterations tracks iterations (or nodes) per run.
	OptimizeIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimize_iterations", Help: "Search iterations per optimization run.", Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000}},
		[]string{"algorithm"},
	)
	// OptimizeBestScore reports the best score of the latest run per
	// instance and algorithm.
	OptimizeBestScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "optimize_best_score", Help: "Best freshness score of the latest run."},
		[]string{"instance", "algorithm"},
	)
)

// RegisterDefault registers collectors to the registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeRuns)
		Registry.MustRegister(OptimizeIterations)
		Registry.MustRegister(OptimizeBestScore)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
