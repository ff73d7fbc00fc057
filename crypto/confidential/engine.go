package confidential

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/log"
	"github.com/eth2030/vcl/metrics"
)

// Engine issues credits and produces and checks proofs under one Params.
// It is safe for concurrent use.
type Engine struct {
	params  Params
	rand    io.Reader
	log     *log.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom replaces crypto/rand as the source of blindings and nonces.
// The reader is serialized behind a mutex, so it need not be safe for
// concurrent use. Only tests should pass a deterministic reader.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = &lockedReader{r: r}
		}
	}
}

// WithLogger sets the engine logger. The default is the package default
// logger under module "confidential".
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records engine operations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine for p.
func New(p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params: p,
		rand:   rand.Reader,
		log:    log.Default().Module("confidential"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("suite", p.Suite.Name())
	return e, nil
}

// Params returns the engine parameters.
func (e *Engine) Params() Params { return e.params }

// Suite returns the engine's group suite.
func (e *Engine) Suite() group.Suite { return e.params.Suite }

// randomScalar draws a fresh scalar. Every blinding and nonce comes from
// here, never from caller input.
func (e *Engine) randomScalar() (group.Scalar, error) {
	return group.RandomScalar(e.params.Suite, e.rand)
}

func (e *Engine) randomScalars(n int) ([]group.Scalar, error) {
	out := make([]group.Scalar, n)
	for i := range out {
		s, err := e.randomScalar()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}

// ---------------------------------------------------------------------------
// Package-level convenience functions -- delegate to a default engine over
// DefaultParams and crypto/rand.
// ---------------------------------------------------------------------------

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine used by the package-level functions.
func Default() *Engine {
	defaultOnce.Do(func() {
		e, err := New(DefaultParams())
		if err != nil {
			panic(err)
		}
		defaultEngine = e
	})
	return defaultEngine
}

// MakeCredit issues a credit for value with the default engine.
func MakeCredit(value uint64) (*ConfidentialCredit, *OwnerSecret, error) {
	return Default().MakeCredit(value)
}

// ProveRange proves the secret's value is in range with the default engine.
func ProveRange(secret *OwnerSecret) (*RangeProof, error) {
	return Default().ProveRange(secret)
}

// VerifyRange checks a range proof with the default engine.
func VerifyRange(credit *ConfidentialCredit, proof *RangeProof) bool {
	return Default().VerifyRange(credit, proof)
}

// ProveSumBalance proves v1 = v2 + v3 with the default engine.
func ProveSumBalance(s1, s2, s3 *OwnerSecret) (*SumBalanceProof, error) {
	return Default().ProveSumBalance(s1, s2, s3)
}

// VerifySumBalance checks a sum-balance proof with the default engine.
func VerifySumBalance(credits [3]*ConfidentialCredit, proof *SumBalanceProof) bool {
	return Default().VerifySumBalance(credits, proof)
}
