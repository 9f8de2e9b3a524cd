package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumecraft",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "导出管线执行总数，按结果分类。",
		},
		[]string{"outcome"},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumecraft",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "导出管线端到端耗时分布（秒）。",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)
)

// ObserveExport 记录一次导出管线的结果与耗时。
// outcome 取值：completed / fallback / failed。
func ObserveExport(outcome string, elapsed time.Duration) {
	exportTotal.WithLabelValues(outcome).Inc()
	exportDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
