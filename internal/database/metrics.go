package database

import (
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

// StoreMetrics records store operation counts and latencies.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
// A nil registerer yields metrics that record nothing.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_store_operations_total",
		Help: "Record store operations by collection, operation and result.",
	}, []string{"collection", "operation", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookshelf_store_operation_duration_seconds",
		Help:    "Duration of record store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "operation"})
	reg.MustRegister(operations, duration)
	return &StoreMetrics{operations: operations, duration: duration}
}

func (m *StoreMetrics) observe(collection, operation string, start time.Time, err error) {
	if m == nil || m.operations == nil {
		return
	}
	m.duration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
	m.operations.WithLabelValues(collection, operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotInitialized:
		return "not_initialized"
	case apperrors.CodeStorageFailure:
		return "storage_failure"
	default:
		return "error"
	}
}

// InstrumentedStore wraps a Store and records metrics for every call.
type InstrumentedStore struct {
	next    Store
	metrics *StoreMetrics
}

// Instrument wraps next with metrics registered on reg.
func Instrument(next Store, reg prometheus.Registerer) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: NewStoreMetrics(reg)}
}

func (s *InstrumentedStore) Load(collection string) ([]json.RawMessage, error) {
	start := time.Now()
	records, err := s.next.Load(collection)
	s.metrics.observe(collection, "load", start, err)
	return records, err
}

func (s *InstrumentedStore) Save(collection string, records []json.RawMessage) error {
	start := time.Now()
	err := s.next.Save(collection, records)
	s.metrics.observe(collection, "save", start, err)
	return err
}

func (s *InstrumentedStore) Create(collection string) error {
	start := time.Now()
	err := s.next.Create(collection)
	s.metrics.observe(collection, "create", start, err)
	return err
}
