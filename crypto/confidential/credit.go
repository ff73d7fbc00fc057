package confidential

import (
	"encoding/binary"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/log"
)

// OwnerSecret is the private opening of a credit. It never leaves the
// holder: it redacts itself from logs and formatted output. Construct it
// with MakeCredit, NewOwnerSecret or DecodeOwnerSecret so that it is bound to
// a suite.
type OwnerSecret struct {
	CreditValue    uint64
	SecretBlinding group.Scalar

	suite group.SuiteID
}

// NewOwnerSecret rebuilds an opening held in storage.
func NewOwnerSecret(suite group.Suite, value uint64, blinding group.Scalar) *OwnerSecret {
	return &OwnerSecret{CreditValue: value, SecretBlinding: blinding, suite: suite.ID()}
}

// Suite returns the ID of the suite the blinding belongs to.
func (s *OwnerSecret) Suite() group.SuiteID { return s.suite }

// Bytes returns value (8 bytes big-endian) followed by the canonical
// blinding encoding. Only the holder should ever see this.
func (s *OwnerSecret) Bytes() []byte {
	out := make([]byte, 8, 8+len(s.SecretBlinding.Bytes()))
	binary.BigEndian.PutUint64(out, s.CreditValue)
	return append(out, s.SecretBlinding.Bytes()...)
}

// DecodeOwnerSecret parses the encoding produced by OwnerSecret.Bytes.
func DecodeOwnerSecret(suite group.Suite, b []byte) (*OwnerSecret, error) {
	if len(b) != 8+suite.ScalarLen() {
		return nil, errors.Wrapf(ErrMalformedEncoding, "opening length %d", len(b))
	}
	blinding, err := suite.DecodeScalar(b[8:])
	if err != nil {
		return nil, errors.Wrap(err, "opening blinding")
	}
	return NewOwnerSecret(suite, binary.BigEndian.Uint64(b[:8]), blinding), nil
}

// LogValue implements slog.LogValuer.
func (s OwnerSecret) LogValue() slog.Value { return log.Redacted() }

// String implements fmt.Stringer.
func (s OwnerSecret) String() string { return "OwnerSecret{" + log.RedactedText + "}" }

// GoString implements fmt.GoStringer.
func (s OwnerSecret) GoString() string { return s.String() }

// ConfidentialCredit is a public Pedersen commitment value*G + blinding*H.
// It is immutable.
type ConfidentialCredit struct {
	suite group.Suite
	point group.Point
}

func newCredit(suite group.Suite, p group.Point) *ConfidentialCredit {
	return &ConfidentialCredit{suite: suite, point: p}
}

// Point returns the commitment point.
func (c *ConfidentialCredit) Point() group.Point { return c.point }

// Suite returns the suite the commitment lives in.
func (c *ConfidentialCredit) Suite() group.Suite { return c.suite }

// Bytes returns the canonical point encoding.
func (c *ConfidentialCredit) Bytes() []byte { return c.point.Bytes() }

// String returns the hex form of the commitment.
func (c *ConfidentialCredit) String() string { return group.EncodeHex(c.point) }

// MarshalText implements encoding.TextMarshaler.
func (c *ConfidentialCredit) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Equal reports whether c and o commit to the same point in the same suite.
func (c *ConfidentialCredit) Equal(o *ConfidentialCredit) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.suite.ID() == o.suite.ID() && c.point.Equal(o.point)
}

// Add returns the commitment to the sum of both values and blindings.
func (c *ConfidentialCredit) Add(o *ConfidentialCredit) (*ConfidentialCredit, error) {
	if c.suite.ID() != o.suite.ID() {
		return nil, ErrSuiteMismatch
	}
	return newCredit(c.suite, c.point.Add(o.point)), nil
}

// Sub returns the commitment to the difference of both values and
// blindings.
func (c *ConfidentialCredit) Sub(o *ConfidentialCredit) (*ConfidentialCredit, error) {
	if c.suite.ID() != o.suite.ID() {
		return nil, ErrSuiteMismatch
	}
	return newCredit(c.suite, c.point.Sub(o.point)), nil
}

// DecodeCredit parses a canonical commitment encoding. The identity is
// rejected.
func DecodeCredit(suite group.Suite, b []byte) (*ConfidentialCredit, error) {
	p, err := suite.DecodePoint(b)
	if err != nil {
		return nil, errors.Wrap(err, "credit")
	}
	if p.IsIdentity() {
		return nil, errors.Wrap(ErrMalformedEncoding, "credit is the identity")
	}
	return newCredit(suite, p), nil
}

// DecodeCreditHex parses the text form produced by ConfidentialCredit.String.
func DecodeCreditHex(suite group.Suite, text string) (*ConfidentialCredit, error) {
	p, err := group.DecodePointHex(suite, text)
	if err != nil {
		return nil, errors.Wrap(err, "credit")
	}
	if p.IsIdentity() {
		return nil, errors.Wrap(ErrMalformedEncoding, "credit is the identity")
	}
	return newCredit(suite, p), nil
}

// commit returns value*G + blinding*H.
func commit(suite group.Suite, value, blinding group.Scalar) group.Point {
	return suite.Generator().Mul(value).Add(suite.BlindingGenerator().Mul(blinding))
}

// MakeCredit draws a fresh blinding and commits to value.
func (e *Engine) MakeCredit(value uint64) (*ConfidentialCredit, *OwnerSecret, error) {
	blinding, err := e.randomScalar()
	if err != nil {
		return nil, nil, errors.Wrap(err, "make credit")
	}
	suite := e.params.Suite
	credit := newCredit(suite, commit(suite, suite.ScalarFromUint64(value), blinding))
	secret := NewOwnerSecret(suite, value, blinding)

	e.metrics.CreditIssued()
	if e.log.Enabled(slog.LevelDebug) {
		e.log.Debug("credit issued", "commitment", credit.String())
	}
	return credit, secret, nil
}

// OpenAndCheck reports whether secret opens credit.
func (e *Engine) OpenAndCheck(secret *OwnerSecret, credit *ConfidentialCredit) bool {
	if secret == nil || secret.SecretBlinding == nil || credit == nil || credit.point == nil {
		return false
	}
	if secret.suite != credit.suite.ID() {
		return false
	}
	suite := credit.suite
	return commit(suite, suite.ScalarFromUint64(secret.CreditValue), secret.SecretBlinding).Equal(credit.point)
}

// checkSecret validates that secret belongs to the engine suite.
func (e *Engine) checkSecret(secret *OwnerSecret) error {
	if secret == nil || secret.SecretBlinding == nil {
		return errors.Wrap(ErrInconsistentSecret, "nil secret")
	}
	if secret.suite != e.params.Suite.ID() {
		return errors.Wrapf(ErrSuiteMismatch, "secret suite %d, engine suite %d", secret.suite, e.params.Suite.ID())
	}
	return nil
}

// creditOf recomputes the commitment a secret opens.
func (e *Engine) creditOf(secret *OwnerSecret) *ConfidentialCredit {
	suite := e.params.Suite
	return newCredit(suite, commit(suite, suite.ScalarFromUint64(secret.CreditValue), secret.SecretBlinding))
}

// ProveRangeFor proves the range of credit after checking that secret opens
// it.
func (e *Engine) ProveRangeFor(credit *ConfidentialCredit, secret *OwnerSecret) (*RangeProof, error) {
	if !e.OpenAndCheck(secret, credit) {
		return nil, ErrInconsistentSecret
	}
	return e.ProveRange(secret)
}

// ProveSumBalanceFor proves value(credits[0]) = value(credits[1]) +
// value(credits[2]) after checking that each secret opens its credit.
func (e *Engine) ProveSumBalanceFor(credits [3]*ConfidentialCredit, secrets [3]*OwnerSecret) (*SumBalanceProof, error) {
	for i := range credits {
		if !e.OpenAndCheck(secrets[i], credits[i]) {
			return nil, errors.Wrapf(ErrInconsistentSecret, "credit %d", i+1)
		}
	}
	return e.ProveSumBalance(secrets[0], secrets[1], secrets[2])
}
