package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aaq-platform/aaq-admin/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	indexJobCounter *prometheus.CounterVec
	indexTaskTime   *prometheus.HistogramVec
	runningJobGauge *prometheus.GaugeVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		indexJobCounter: metrics.NewCounterVec("index_job_total", []string{"status"}),
		indexTaskTime:   metrics.NewHistogramVec("index_task_time", []string{"status"}),
		runningJobGauge: metrics.NewGaugeVec("index_job_running", []string{"workspace"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) IndexJobInc(status string) {
	m.indexJobCounter.WithLabelValues(status).Inc()
}

func (m *Metrics) IndexTaskObserve(status string, seconds float64) {
	m.indexTaskTime.WithLabelValues(status).Observe(seconds)
}

func (m *Metrics) SetRunningJobs(workspace string, n float64) {
	m.runningJobGauge.WithLabelValues(workspace).Set(n)
}
