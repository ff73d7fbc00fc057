package confidential

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
)

// Range proof layout:
//
//	header(4) | c | N x (Ci | c0 | z0 | z1) | s
//
// Sum-balance proof layout:
//
//	header(3) | c | m1 | m2 | m3 | m4 | m5
//
// Scalars and points use the suite's canonical fixed-width encodings.

func rangeProofLen(p Params) int {
	sl, pl := p.Suite.ScalarLen(), p.Suite.PointLen()
	return rangeHeaderLen + 2*sl + p.Bits*(pl+3*sl)
}

func balanceProofLen(p Params) int {
	return balanceHeaderLen + 6*p.Suite.ScalarLen()
}

// Bytes returns the canonical encoding.
func (p *RangeProof) Bytes() []byte {
	out := make([]byte, 0, rangeProofLen(p.params))
	out = append(out, p.params.rangeHeader()...)
	out = append(out, p.challenge.Bytes()...)
	for _, b := range p.bits {
		out = append(out, b.commitment.Bytes()...)
		out = append(out, b.c0.Bytes()...)
		out = append(out, b.z0.Bytes()...)
		out = append(out, b.z1.Bytes()...)
	}
	return append(out, p.response.Bytes()...)
}

// DecodeRangeProof parses a range proof. Parameters come from the header.
// Every structural failure is ErrMalformedProof.
func DecodeRangeProof(b []byte) (*RangeProof, error) {
	params, rest, err := parseHeader(b, true)
	if err != nil {
		return nil, err
	}
	if len(b) != rangeProofLen(params) {
		return nil, errors.Wrapf(ErrMalformedProof, "range proof length %d, want %d", len(b), rangeProofLen(params))
	}
	r := &reader{suite: params.Suite, buf: rest}
	proof := &RangeProof{params: params, bits: make([]bitProof, params.Bits)}
	proof.challenge = r.scalar()
	for i := range proof.bits {
		proof.bits[i] = bitProof{
			commitment: r.point(),
			c0:         r.scalar(),
			z0:         r.scalar(),
			z1:         r.scalar(),
		}
	}
	proof.response = r.scalar()
	if r.err != nil {
		return nil, r.err
	}
	return proof, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p *RangeProof) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(p.Bytes())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *RangeProof) UnmarshalText(text []byte) error {
	b, err := hexutil.Decode(string(text))
	if err != nil {
		return errors.Wrap(ErrMalformedProof, err.Error())
	}
	dec, err := DecodeRangeProof(b)
	if err != nil {
		return err
	}
	*p = *dec
	return nil
}

// Bytes returns the canonical encoding.
func (p *SumBalanceProof) Bytes() []byte {
	out := make([]byte, 0, balanceProofLen(p.params))
	out = append(out, p.params.balanceHeader()...)
	out = append(out, p.c.Bytes()...)
	for _, m := range p.m {
		out = append(out, m.Bytes()...)
	}
	return out
}

// DecodeSumBalanceProof parses a sum-balance proof. Parameters come from the
// header. Every structural failure is ErrMalformedProof.
func DecodeSumBalanceProof(b []byte) (*SumBalanceProof, error) {
	params, rest, err := parseHeader(b, false)
	if err != nil {
		return nil, err
	}
	if len(b) != balanceProofLen(params) {
		return nil, errors.Wrapf(ErrMalformedProof, "sum-balance proof length %d, want %d", len(b), balanceProofLen(params))
	}
	r := &reader{suite: params.Suite, buf: rest}
	proof := &SumBalanceProof{params: params}
	proof.c = r.scalar()
	for i := range proof.m {
		proof.m[i] = r.scalar()
	}
	if r.err != nil {
		return nil, r.err
	}
	return proof, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p *SumBalanceProof) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(p.Bytes())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SumBalanceProof) UnmarshalText(text []byte) error {
	b, err := hexutil.Decode(string(text))
	if err != nil {
		return errors.Wrap(ErrMalformedProof, err.Error())
	}
	dec, err := DecodeSumBalanceProof(b)
	if err != nil {
		return err
	}
	*p = *dec
	return nil
}

// reader consumes fixed-width elements and keeps the first error. Callers
// check the total length up front, so running short is a bug.
type reader struct {
	suite group.Suite
	buf   []byte
	err   error
}

func (r *reader) next(n int) []byte {
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out
}

func (r *reader) scalar() group.Scalar {
	b := r.next(r.suite.ScalarLen())
	if r.err != nil {
		return nil
	}
	s, err := r.suite.DecodeScalar(b)
	if err != nil {
		r.err = errors.Wrap(ErrMalformedProof, err.Error())
		return nil
	}
	return s
}

func (r *reader) point() group.Point {
	b := r.next(r.suite.PointLen())
	if r.err != nil {
		return nil
	}
	p, err := r.suite.DecodePoint(b)
	if err != nil {
		r.err = errors.Wrap(ErrMalformedProof, err.Error())
		return nil
	}
	if p.IsIdentity() {
		r.err = errors.Wrap(ErrMalformedProof, "identity proof element")
		return nil
	}
	return p
}
