// Package metrics contadores Prometheus compartidos por la API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados de una reparación de secuencia.
const (
	RepairRepaired     = "repaired"      // reparada y reintento exitoso
	RepairRetryFailed  = "retry_failed"  // reparada pero el reintento falló
	RepairRepairFailed = "repair_failed" // setval falló
	RepairBulk         = "bulk"          // reparación explícita (cmd/import)
)

var (
	// SequenceRepairs reparaciones de secuencias de ids por tabla y resultado.
	SequenceRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "climate",
		Name:      "sequence_repairs_total",
		Help:      "Reparaciones de secuencias de claves primarias desincronizadas.",
	}, []string{"table", "result"})

	// HTTPRequests peticiones atendidas por la API.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "climate",
		Name:      "http_requests_total",
		Help:      "Peticiones HTTP por método, ruta y código de estado.",
	}, []string{"method", "route", "status"})

	// HTTPDuration latencia de las peticiones HTTP.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "climate",
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// EventsPublished eventos de solicitudes publicados (o fallidos) hacia RabbitMQ.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "climate",
		Name:      "request_events_total",
		Help:      "Eventos de solicitudes publicados por tipo y resultado.",
	}, []string{"event", "result"})
)
