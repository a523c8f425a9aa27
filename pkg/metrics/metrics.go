// Package metrics wraps prometheus collector construction behind a single
// process-wide namespace/subsystem pair configured once at startup.
package metrics

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var def = struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry
}{
	namespace: "default",
	subsystem: "default",
	registry:  prometheus.NewRegistry(),
}

// SetupMetricsManager sets the namespace/subsystem applied to every
// collector created afterwards and registers the Go runtime collector.
// Call it once before any New*Vec call.
func SetupMetricsManager(ns, subsystem string, registry *prometheus.Registry) {
	def.namespace = ns
	def.subsystem = subsystem
	def.registry = registry
	registry.Register(collectors.NewGoCollector())
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: sanitize(def.namespace),
			Subsystem: sanitize(def.subsystem),
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s count of /%s/%s", name, def.namespace, def.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(emptyLabels(labels)...).Add(0)
	def.registry.Register(vec)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: sanitize(def.namespace),
			Subsystem: sanitize(def.subsystem),
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s duration of /%s/%s", name, def.namespace, def.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(emptyLabels(labels)...).Observe(0)
	def.registry.Register(vec)
	return vec
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: sanitize(def.namespace),
			Subsystem: sanitize(def.subsystem),
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s gauge of /%s/%s", name, def.namespace, def.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(emptyLabels(labels)...).Add(0)
	def.registry.Register(vec)
	return vec
}

// DefaultExportHandler serves the configured registry in gin.
func DefaultExportHandler() gin.HandlerFunc {
	h := promhttp.InstrumentMetricHandler(
		def.registry, promhttp.HandlerFor(def.registry, promhttp.HandlerOpts{}),
	)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// emptyLabels pre-touches the vec so it exports a zero sample even
// before the first real observation.
func emptyLabels(labels []string) []string {
	return make([]string, len(labels))
}

// sanitize maps characters prometheus rejects in metric names.
func sanitize(in string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(in)
}
