package group

// Ristretto255 suite backed by github.com/bwesterb/go-ristretto.
//
// Scalars encode as 32 little-endian bytes below the group order l; points
// use the 32-byte Ristretto encoding, which only represents elements of the
// prime-order group, so no separate cofactor check is needed.

import (
	"bytes"
	"math/big"

	"github.com/bwesterb/go-ristretto"
)

// ristrettoOrder is l = 2^252 + 27742317777372353535851937790883648493.
var ristrettoOrder, _ = new(big.Int).SetString(
	"7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

const ristrettoHLabel = "vcl/ristretto255/pedersen-h"

type ristrettoSuite struct {
	g, h ristrettoPoint
}

func newRistrettoSuite() *ristrettoSuite {
	s := &ristrettoSuite{}
	s.g.p.SetBase()
	s.h.p.Derive([]byte(ristrettoHLabel))
	return s
}

func (s *ristrettoSuite) ID() SuiteID { return Ristretto255 }
func (s *ristrettoSuite) Name() string { return "ristretto255" }
func (s *ristrettoSuite) ScalarLen() int { return 32 }
func (s *ristrettoSuite) PointLen() int { return 32 }
func (s *ristrettoSuite) Generator() Point { return &ristrettoPoint{p: s.g.p} }

func (s *ristrettoSuite) BlindingGenerator() Point { return &ristrettoPoint{p: s.h.p} }

func (s *ristrettoSuite) Identity() Point {
	out := &ristrettoPoint{}
	out.p.SetZero()
	return out
}

func (s *ristrettoSuite) ScalarFromUint64(v uint64) Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	out := &ristrettoScalar{}
	out.s.SetBytes(&buf)
	return out
}

func (s *ristrettoSuite) ScalarFromWide(b []byte) Scalar {
	if len(b) != WideScalarLen {
		panic("group: wide scalar must be 64 bytes")
	}
	var buf [64]byte
	copy(buf[:], b)
	out := &ristrettoScalar{}
	out.s.SetReduced(&buf)
	return out
}

func (s *ristrettoSuite) DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != 32 || !belowOrder(b, ristrettoOrder, true) {
		return nil, ErrMalformedEncoding
	}
	var buf [32]byte
	copy(buf[:], b)
	out := &ristrettoScalar{}
	out.s.SetBytes(&buf)
	if !bytes.Equal(out.s.Bytes(), b) {
		return nil, ErrMalformedEncoding
	}
	return out, nil
}

func (s *ristrettoSuite) DecodePoint(b []byte) (Point, error) {
	if len(b) != 32 {
		return nil, ErrMalformedEncoding
	}
	var buf [32]byte
	copy(buf[:], b)
	out := &ristrettoPoint{}
	if !out.p.SetBytes(&buf) {
		return nil, ErrMalformedEncoding
	}
	if !bytes.Equal(out.p.Bytes(), b) {
		return nil, ErrMalformedEncoding
	}
	return out, nil
}

type ristrettoScalar struct {
	s ristretto.Scalar
}

func asRistrettoScalar(o Scalar) *ristrettoScalar {
	v, ok := o.(*ristrettoScalar)
	if !ok {
		panic("group: scalar is not a ristretto255 scalar")
	}
	return v
}

func (x *ristrettoScalar) Add(o Scalar) Scalar {
	out := &ristrettoScalar{}
	out.s.Add(&x.s, &asRistrettoScalar(o).s)
	return out
}

func (x *ristrettoScalar) Sub(o Scalar) Scalar {
	out := &ristrettoScalar{}
	out.s.Sub(&x.s, &asRistrettoScalar(o).s)
	return out
}

func (x *ristrettoScalar) Mul(o Scalar) Scalar {
	out := &ristrettoScalar{}
	out.s.Mul(&x.s, &asRistrettoScalar(o).s)
	return out
}

func (x *ristrettoScalar) Neg() Scalar {
	out := &ristrettoScalar{}
	out.s.Neg(&x.s)
	return out
}

func (x *ristrettoScalar) Equal(o Scalar) bool {
	return x.s.Equals(&asRistrettoScalar(o).s)
}

func (x *ristrettoScalar) IsZero() bool {
	var zero ristretto.Scalar
	zero.SetZero()
	return x.s.Equals(&zero)
}

func (x *ristrettoScalar) Bytes() []byte { return x.s.Bytes() }

type ristrettoPoint struct {
	p ristretto.Point
}

func asRistrettoPoint(o Point) *ristrettoPoint {
	v, ok := o.(*ristrettoPoint)
	if !ok {
		panic("group: point is not a ristretto255 point")
	}
	return v
}

func (a *ristrettoPoint) Add(o Point) Point {
	out := &ristrettoPoint{}
	out.p.Add(&a.p, &asRistrettoPoint(o).p)
	return out
}

func (a *ristrettoPoint) Sub(o Point) Point {
	out := &ristrettoPoint{}
	out.p.Sub(&a.p, &asRistrettoPoint(o).p)
	return out
}

func (a *ristrettoPoint) Mul(s Scalar) Point {
	out := &ristrettoPoint{}
	out.p.ScalarMult(&a.p, &asRistrettoScalar(s).s)
	return out
}

func (a *ristrettoPoint) Equal(o Point) bool {
	return a.p.Equals(&asRistrettoPoint(o).p)
}

func (a *ristrettoPoint) IsIdentity() bool {
	var zero ristretto.Point
	zero.SetZero()
	return a.p.Equals(&zero)
}

func (a *ristrettoPoint) Bytes() []byte { return a.p.Bytes() }

func init() {
	Register(newRistrettoSuite())
}
