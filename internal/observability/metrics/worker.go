package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the document pipeline. The service name is
// a const label rather than a per-observation one: a worker process
// only ever reports as itself, and keeping it out of the method
// signatures keeps call sites from disagreeing.
type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	serviceLabel := prometheus.Labels{"service": service}

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "opsdesk",
			Subsystem:   "worker",
			Name:        "document_process_total",
			Help:        "Documents processed, by outcome.",
			ConstLabels: serviceLabel,
		},
		[]string{"status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opsdesk",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Wall time of one document end to end: extract, chunk, embed, upsert.",
			// Embedding dominates; big documents run for minutes.
			Buckets:     []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			ConstLabels: serviceLabel,
		},
		[]string{"status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "opsdesk",
			Subsystem:   "worker",
			Name:        "document_process_in_flight",
			Help:        "Documents currently being processed.",
			ConstLabels: serviceLabel,
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "opsdesk",
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Age of a document when processing starts: upload time to pickup.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: serviceLabel,
		},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.processTotal.WithLabelValues(status).Inc()
	m.processDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
