// Package metrics exposes prometheus instruments for rendering and template
// storage. Every method is safe on a nil receiver so callers can run
// without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render outputs.
const (
	OutputPreview   = "preview"
	OutputPrintable = "printable"
	OutputPDF       = "pdf"
)

type Metrics struct {
	renderDuration *prometheus.HistogramVec
	renderTotal    *prometheus.CounterVec
	storeOps       *prometheus.CounterVec
	editorSessions prometheus.Gauge
}

// New registers the instruments on reg. A nil reg yields a no-op Metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odin_render_duration_seconds",
		Help:    "Duration of template renders in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"output"})
	renderTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odin_render_total",
		Help: "Template renders by output and result.",
	}, []string{"output", "result"})
	storeOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odin_template_store_operations_total",
		Help: "Template store operations by name and result.",
	}, []string{"op", "result"})
	editorSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "odin_editor_sessions",
		Help: "Open editor sessions.",
	})
	reg.MustRegister(renderDuration, renderTotal, storeOps, editorSessions)
	return &Metrics{
		renderDuration: renderDuration,
		renderTotal:    renderTotal,
		storeOps:       storeOps,
		editorSessions: editorSessions,
	}
}

// ObserveRender records one render of output that took d.
func (m *Metrics) ObserveRender(output string, d time.Duration, err error) {
	if m == nil || m.renderDuration == nil {
		return
	}
	output = normalizeLabel(output)
	m.renderDuration.WithLabelValues(output).Observe(d.Seconds())
	m.renderTotal.WithLabelValues(output, result(err)).Inc()
}

// IncStoreOp counts a template store operation.
func (m *Metrics) IncStoreOp(op string, err error) {
	if m == nil || m.storeOps == nil {
		return
	}
	m.storeOps.WithLabelValues(normalizeLabel(op), result(err)).Inc()
}

func (m *Metrics) SetEditorSessions(n int) {
	if m == nil || m.editorSessions == nil {
		return
	}
	m.editorSessions.Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
