package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Firestore transport metrics.
var (
	FirestoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "firequery",
			Subsystem: "firestore",
			Name:      "requests_total",
			Help:      "Total number of calls to the Firestore REST endpoint",
		},
		[]string{"operation", "status"},
	)

	FirestoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "firequery",
			Subsystem: "firestore",
			Name:      "request_duration_seconds",
			Help:      "Firestore REST call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	FirestoreDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "firequery",
			Subsystem: "firestore",
			Name:      "documents_total",
			Help:      "Documents decoded from Firestore responses",
		},
		[]string{"operation"},
	)
)

var registerFirestoreOnce sync.Once

// RegisterFirestoreMetrics registers the transport metrics on the default
// registry. Safe to call more than once.
func RegisterFirestoreMetrics() {
	registerFirestoreOnce.Do(func() {
		prometheus.MustRegister(FirestoreRequestsTotal)
		prometheus.MustRegister(FirestoreRequestDuration)
		prometheus.MustRegister(FirestoreDocumentsTotal)
	})
}
