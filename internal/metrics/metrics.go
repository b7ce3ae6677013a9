// Package metrics exports verification activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/smallyu/go-sqisign/internal/crypto/field"
)

const (
	namespace = "sqisign"
	subsystem = "verify"
)

// Metrics counts field operations and verification outcomes.
// It implements field.Counter.
type Metrics struct {
	fieldOps      *prometheus.CounterVec
	fieldCost     prometheus.Counter
	verifications *prometheus.CounterVec

	// resolved once, Count runs in the hot path
	ops []prometheus.Counter
}

var _ field.Counter = (*Metrics)(nil)

// New creates the metrics and registers them with registerer.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fieldOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "field_operations_total",
				Help:      "Count of GF(p^2) operations by kind",
			},
			[]string{"op"},
		),
		fieldCost: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "field_cost_total",
				Help:      "Weighted cost of GF(p^2) operations in multiplications",
			},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signatures_total",
				Help:      "Count of verified signatures by result",
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.fieldOps, m.fieldCost, m.verifications} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	for _, op := range field.Ops() {
		m.ops = append(m.ops, m.fieldOps.WithLabelValues(op.String()))
	}
	return m, nil
}

// Count implements field.Counter.
func (m *Metrics) Count(op field.Op) {
	if int(op) < 0 || int(op) >= len(m.ops) {
		return
	}
	m.ops[op].Inc()
	m.fieldCost.Add(op.Weight())
}

// ObserveVerification records the outcome of one verification.
func (m *Metrics) ObserveVerification(valid bool, err error) {
	result := "invalid"
	switch {
	case err != nil:
		result = "error"
	case valid:
		result = "valid"
	}
	m.verifications.WithLabelValues(result).Inc()
}

// Operations returns the current operation totals.
func (m *Metrics) Operations() map[field.Op]float64 {
	totals := make(map[field.Op]float64)
	for _, op := range field.Ops() {
		if v := value(m.ops[op]); v > 0 {
			totals[op] = v
		}
	}
	return totals
}

// Cost returns the weighted total of all operations.
func (m *Metrics) Cost() float64 {
	return value(m.fieldCost)
}

func value(c prometheus.Counter) float64 {
	var metric = &dto.Metric{}
	if err := c.Write(metric); err != nil {
		return 0
	}
	return metric.Counter.GetValue()
}
