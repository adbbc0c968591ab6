package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 流水线运行指标（挂在独立Registry上，经/metrics暴露）
type Metrics struct {
	Registry      *prometheus.Registry
	RunsTotal     *prometheus.CounterVec // 按终态计数的运行次数
	RunDuration   prometheus.Histogram   // 单次运行耗时
	APICallsTotal *prometheus.CounterVec // 按接口计数的HTTP调用
	DegradedTotal *prometheus.CounterVec // 降级为空的表次数
	RowsExtracted *prometheus.CounterVec // 按表计数的产出行
	RowsSkipped   *prometheus.CounterVec // 按表与原因计数的丢弃行
}

// NewMetrics 构建并注册全部指标
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebaysync_runs_total",
			Help: "Total pipeline runs by final state.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ebaysync_run_duration_seconds",
			Help:    "Pipeline run duration.",
			Buckets: prometheus.DefBuckets,
		},
	)
	apiCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebaysync_api_calls_total",
			Help: "Total upstream HTTP calls by source.",
		},
		[]string{"source"},
	)
	degraded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebaysync_tables_degraded_total",
			Help: "Tables degraded to empty by table and reason.",
		},
		[]string{"table", "reason"},
	)
	rowsExtracted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebaysync_rows_extracted_total",
			Help: "Extracted rows by table.",
		},
		[]string{"table"},
	)
	rowsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebaysync_rows_skipped_total",
			Help: "Skipped rows by table and reason.",
		},
		[]string{"table", "reason"},
	)

	registry.MustRegister(runs, runDuration, apiCalls, degraded, rowsExtracted, rowsSkipped)

	return &Metrics{
		Registry:      registry,
		RunsTotal:     runs,
		RunDuration:   runDuration,
		APICallsTotal: apiCalls,
		DegradedTotal: degraded,
		RowsExtracted: rowsExtracted,
		RowsSkipped:   rowsSkipped,
	}
}

// RunFinished 记录一次运行的终态与耗时
func (m *Metrics) RunFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// AddAPICalls 累加某接口的HTTP调用次数
func (m *Metrics) AddAPICalls(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.APICallsTotal.WithLabelValues(source).Add(float64(n))
}

// TableDegraded 记录一张表的降级
func (m *Metrics) TableDegraded(table, reason string) {
	if m == nil {
		return
	}
	m.DegradedTotal.WithLabelValues(table, reason).Inc()
}

// AddRowsExtracted 累加某表产出行数
func (m *Metrics) AddRowsExtracted(table string, n int) {
	if m == nil || n < 0 {
		return
	}
	m.RowsExtracted.WithLabelValues(table).Add(float64(n))
}

// RowSkipped 记录一行丢弃
func (m *Metrics) RowSkipped(table, reason string) {
	if m == nil {
		return
	}
	m.RowsSkipped.WithLabelValues(table, reason).Inc()
}
