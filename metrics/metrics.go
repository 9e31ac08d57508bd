// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/quickly-ballot/ballot"
)

var _ ballot.Listener = (*Metrics)(nil)

// Metrics counts accepted and rejected ballot operations.
type Metrics struct {
	operations     *prometheus.CounterVec
	failures       *prometheus.CounterVec
	weightTallied  prometheus.Counter
	weightDelegate prometheus.Counter
}

func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_accepted_total",
				Help:      "Number of accepted ballot operations",
			},
			[]string{"op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_rejected_total",
				Help:      "Number of rejected ballot operations by reason",
			},
			[]string{"op", "reason"},
		),
		weightTallied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_tallied_total",
			Help:      "Total weight added to proposal vote counts",
		}),
		weightDelegate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_delegated_total",
			Help:      "Total weight moved onto voters that had not yet decided",
		}),
	}
	err := errors.Join(
		registerer.Register(m.operations),
		registerer.Register(m.failures),
		registerer.Register(m.weightTallied),
		registerer.Register(m.weightDelegate),
	)
	return m, err
}

// BallotChanged records an accepted operation.
func (m *Metrics) BallotChanged(e ballot.Event) {
	m.operations.WithLabelValues(string(e.Op)).Inc()
	switch e.Op {
	case ballot.OpVote:
		m.weightTallied.Add(float64(e.Weight))
	case ballot.OpDelegate:
		if e.Proposal >= 0 {
			m.weightTallied.Add(float64(e.Weight))
		} else {
			m.weightDelegate.Add(float64(e.Weight))
		}
	}
}

// Observe records every event of a committed call.
func (m *Metrics) Observe(events []ballot.Event) {
	for _, e := range events {
		m.BallotChanged(e)
	}
}

// MarkRejected records a failed operation. Errors outside the ballot
// taxonomy are counted as "internal".
func (m *Metrics) MarkRejected(op ballot.Op, err error) {
	reason := ballot.Code(err)
	if reason == "" {
		reason = "internal"
	}
	m.failures.WithLabelValues(string(op), reason).Inc()
}
