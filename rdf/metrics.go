package rdf

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the handler's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Parses                 *prometheus.CounterVec
	QuadExtractionFailures prometheus.Counter
	PolicyViolations       prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdf",
			Subsystem: "jsonld",
			Name:      "parses_total",
			Help:      "JSON-LD parse calls by outcome.",
		}, []string{"outcome"}),
		QuadExtractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdf",
			Subsystem: "jsonld",
			Name:      "quad_extraction_failures_total",
			Help:      "Named graph extractions that degraded to an empty result.",
		}),
		PolicyViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rdf",
			Subsystem: "jsonld",
			Name:      "policy_violations_total",
			Help:      "Documents rejected for referencing a remote @context.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Parses, m.QuadExtractionFailures, m.PolicyViolations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) quadExtractionFailed() {
	if m == nil {
		return
	}
	m.QuadExtractionFailures.Inc()
}

func (m *Metrics) observeParse(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(Code(err))
	}
	m.Parses.WithLabelValues(outcome).Inc()
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Kind == KindPolicyViolation {
		m.PolicyViolations.Inc()
	}
}
