package confidential

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/crypto/transcript"
)

// ProtocolVersion is the only proof encoding version this package emits.
const ProtocolVersion uint8 = 1

// MaxBits is the widest supported range, matching the uint64 value domain.
const MaxBits = 64

const (
	rangeHeaderLen   = 4 // version | suite | hash | bits
	balanceHeaderLen = 3 // version | suite | hash
)

// Transcript domains.
const (
	rangeDomain   = "vcl/range-proof/v1"
	balanceDomain = "vcl/sum-balance-proof/v1"
)

// Params fixes the deployment choices behind every commitment and proof.
type Params struct {
	Suite group.Suite
	Hash  transcript.HashID
	Bits  int
}

// DefaultParams returns ristretto255, sha3-256 and 64-bit ranges.
func DefaultParams() Params {
	s, err := group.Lookup(group.Ristretto255)
	if err != nil {
		panic(err)
	}
	return Params{Suite: s, Hash: transcript.SHA3_256, Bits: MaxBits}
}

// NewParams resolves suite and hash names. Empty names select the defaults;
// bits == 0 selects MaxBits.
func NewParams(suite, hash string, bits int) (Params, error) {
	p := DefaultParams()
	if suite != "" {
		s, err := group.LookupByName(suite)
		if err != nil {
			return Params{}, errors.Wrap(ErrInvalidParams, err.Error())
		}
		p.Suite = s
	}
	if hash != "" {
		id, err := transcript.ParseHashID(hash)
		if err != nil {
			return Params{}, errors.Wrap(ErrInvalidParams, err.Error())
		}
		p.Hash = id
	}
	if bits != 0 {
		p.Bits = bits
	}
	return p, p.Validate()
}

// Validate checks that every field names a supported choice.
func (p Params) Validate() error {
	if p.Suite == nil {
		return errors.Wrap(ErrInvalidParams, "nil suite")
	}
	if !p.Hash.Valid() {
		return errors.Wrapf(ErrInvalidParams, "hash %s", p.Hash)
	}
	if p.Bits < 1 || p.Bits > MaxBits {
		return errors.Wrapf(ErrInvalidParams, "bits %d outside [1, %d]", p.Bits, MaxBits)
	}
	return nil
}

func (p Params) String() string {
	name := "<nil>"
	if p.Suite != nil {
		name = p.Suite.Name()
	}
	return fmt.Sprintf("%s/%s/%d", name, p.Hash, p.Bits)
}

// Equal reports whether p and o select the same suite, hash and width.
func (p Params) Equal(o Params) bool {
	if p.Suite == nil || o.Suite == nil {
		return p.Suite == o.Suite && p.Hash == o.Hash && p.Bits == o.Bits
	}
	return p.Suite.ID() == o.Suite.ID() && p.Hash == o.Hash && p.Bits == o.Bits
}

func (p Params) rangeHeader() []byte {
	return []byte{ProtocolVersion, byte(p.Suite.ID()), byte(p.Hash), byte(p.Bits)}
}

func (p Params) balanceHeader() []byte {
	return []byte{ProtocolVersion, byte(p.Suite.ID()), byte(p.Hash)}
}

// parseHeader reads a proof header. Range headers carry the bit width;
// balance headers use MaxBits.
func parseHeader(b []byte, withBits bool) (Params, []byte, error) {
	n := balanceHeaderLen
	if withBits {
		n = rangeHeaderLen
	}
	if len(b) < n {
		return Params{}, nil, errors.Wrap(ErrMalformedProof, "short header")
	}
	if b[0] != ProtocolVersion {
		return Params{}, nil, errors.Wrapf(ErrMalformedProof, "version %d", b[0])
	}
	suite, err := group.Lookup(group.SuiteID(b[1]))
	if err != nil {
		return Params{}, nil, errors.Wrap(ErrMalformedProof, err.Error())
	}
	p := Params{Suite: suite, Hash: transcript.HashID(b[2]), Bits: MaxBits}
	if withBits {
		p.Bits = int(b[3])
	}
	if err := p.Validate(); err != nil {
		return Params{}, nil, errors.Wrap(ErrMalformedProof, err.Error())
	}
	return p, b[n:], nil
}

// newTranscript starts a transcript for domain seeded with the header and
// both generators.
func (p Params) newTranscript(domain string, header []byte) (transcript.Transcript, error) {
	t, err := transcript.New(p.Hash, domain)
	if err != nil {
		return nil, err
	}
	t.Append("header", header)
	t.Append("G", p.Suite.Generator().Bytes())
	t.Append("H", p.Suite.BlindingGenerator().Bytes())
	return t, nil
}

// challengeScalar squeezes a challenge from t and reduces it into p's
// scalar field.
func (p Params) challengeScalar(t transcript.Transcript, label string) group.Scalar {
	return p.Suite.ScalarFromWide(t.Challenge(label))
}
