// Package metrics expone métricas Prometheus del flujo de facturación.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implementa billing.Metrics con un registry propio.
type Prometheus struct {
	registry    *prometheus.Registry
	finalize    *prometheus.CounterVec
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	archive     *prometheus.CounterVec
}

// NewPrometheus registra los colectores. Cada instancia tiene su propio registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		finalize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturador",
			Name:      "finalize_total",
			Help:      "Intentos de finalizar la edición, por resultado de validación.",
		}, []string{"valid"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturador",
			Name:      "webhook_submissions_total",
			Help:      "Envíos al webhook por tipo de factura y resultado.",
		}, []string{"tipo_factura", "ok"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facturador",
			Name:      "webhook_duration_seconds",
			Help:      "Duración del POST al webhook.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		archive: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facturador",
			Name:      "archive_writes_total",
			Help:      "Escrituras de la copia JSON local por resultado.",
		}, []string{"ok"}),
	}
	reg.MustRegister(
		p.finalize, p.submissions, p.latency, p.archive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) ObserveFinalize(valid bool) {
	p.finalize.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func (p *Prometheus) ObserveSubmission(invoiceType string, ok bool, elapsed time.Duration) {
	p.submissions.WithLabelValues(invoiceType, strconv.FormatBool(ok)).Inc()
	p.latency.Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveArchive(ok bool) {
	p.archive.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// Handler endpoint /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry registry subyacente.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }
