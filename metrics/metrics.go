// Package metrics instruments the confidential credit engine with Prometheus
// collectors: credits issued, proofs generated, verification outcomes and
// prove/verify latency. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "vcl"

// Kind labels the proof protocol an observation belongs to.
type Kind string

const (
	KindRange   Kind = "range"
	KindBalance Kind = "balance"
)

// Verification results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// latencyBuckets spans single-bit range proofs up to 64-bit proofs on the
// slowest suite.
var latencyBuckets = prometheus.ExponentialBuckets(0.0001, 2, 16)

// Metrics holds the engine collectors.
type Metrics struct {
	CreditsIssued   prometheus.Counter
	ProofsGenerated *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	ProveDuration   *prometheus.HistogramVec
	VerifyDuration  *prometheus.HistogramVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		CreditsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "credits_issued_total",
			Help:      "Confidential credits issued.",
		}),
		ProofsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "proofs_generated_total",
			Help:      "Proofs generated, by protocol.",
		}, []string{"kind"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "verifications_total",
			Help:      "Proof verifications, by protocol and result.",
		}, []string{"kind", "result"}),
		ProveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "prove_duration_seconds",
			Help:      "Proof generation latency.",
			Buckets:   latencyBuckets,
		}, []string{"kind"}),
		VerifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "verify_duration_seconds",
			Help:      "Proof verification latency.",
			Buckets:   latencyBuckets,
		}, []string{"kind"}),
	}
}

// NewRegistered creates collectors and registers them on reg.
func NewRegistered(reg prometheus.Registerer) (*Metrics, error) {
	m := New()
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

// Collectors returns every collector in m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CreditsIssued, m.ProofsGenerated, m.Verifications, m.ProveDuration, m.VerifyDuration,
	}
}

// Register registers every collector on reg, stopping at the first error.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// CreditIssued counts one issued credit.
func (m *Metrics) CreditIssued() {
	if m == nil {
		return
	}
	m.CreditsIssued.Inc()
}

// ProofGenerated records a successful proof generation that took d.
func (m *Metrics) ProofGenerated(kind Kind, d time.Duration) {
	if m == nil {
		return
	}
	m.ProofsGenerated.WithLabelValues(string(kind)).Inc()
	m.ProveDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// Verified records a verification outcome that took d.
func (m *Metrics) Verified(kind Kind, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := ResultRejected
	if ok {
		result = ResultAccepted
	}
	m.Verifications.WithLabelValues(string(kind), result).Inc()
	m.VerifyDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}
