//go:build blst

// BLS12-381 G1 suite. Group operations run in the supranational/blst
// library via CGO; scalar arithmetic uses gnark-crypto's bls12-381 fr.
//
// Build with: go build -tags blst
// Test with:  go test -tags blst ./crypto/group/ -run BLS
package group

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	blst "github.com/supranational/blst/bindings/go"
)

// blsPointLen is the size of a compressed G1 point.
const blsPointLen = 48

var (
	blsHMessage = []byte("pedersen-h")
	blsHDST     = []byte("VCL-V01-CS01-with-BLS12381G1_XMD:SHA-256_SSWU_RO_")
)

type blsSuite struct {
	g, h *blst.P1
}

func newBLSSuite() *blsSuite {
	return &blsSuite{
		g: blst.P1Generator(),
		h: blst.HashToG1(blsHMessage, blsHDST),
	}
}

func (s *blsSuite) ID() SuiteID { return BLS12381 }
func (s *blsSuite) Name() string { return "bls12-381" }
func (s *blsSuite) ScalarLen() int { return fr.Bytes }
func (s *blsSuite) PointLen() int { return blsPointLen }
func (s *blsSuite) Generator() Point { return &blsPoint{p: *s.g} }
func (s *blsSuite) BlindingGenerator() Point { return &blsPoint{p: *s.h} }

// Identity returns the zero-valued P1, which blst treats as infinity.
func (s *blsSuite) Identity() Point { return &blsPoint{} }

func (s *blsSuite) ScalarFromUint64(v uint64) Scalar {
	out := &blsScalar{}
	out.e.SetUint64(v)
	return out
}

func (s *blsSuite) ScalarFromWide(b []byte) Scalar {
	if len(b) != WideScalarLen {
		panic("group: wide scalar must be 64 bytes")
	}
	out := &blsScalar{}
	out.e.SetBigInt(new(big.Int).SetBytes(b))
	return out
}

func (s *blsSuite) DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != fr.Bytes {
		return nil, ErrMalformedEncoding
	}
	out := &blsScalar{}
	if err := out.e.SetBytesCanonical(b); err != nil {
		return nil, ErrMalformedEncoding
	}
	return out, nil
}

func (s *blsSuite) DecodePoint(b []byte) (Point, error) {
	if len(b) != blsPointLen {
		return nil, ErrMalformedEncoding
	}
	if isBLSInfinity(b) {
		return &blsPoint{}, nil
	}
	aff := new(blst.P1Affine).Uncompress(b)
	if aff == nil || !aff.InG1() {
		return nil, ErrMalformedEncoding
	}
	out := &blsPoint{}
	out.p.AddAssign(aff)
	if !bytes.Equal(out.Bytes(), b) {
		return nil, ErrMalformedEncoding
	}
	return out, nil
}

// isBLSInfinity matches the compressed encoding of the point at infinity:
// the compression and infinity flags set, every other bit clear.
func isBLSInfinity(b []byte) bool {
	if b[0] != 0xc0 {
		return false
	}
	for _, v := range b[1:] {
		if v != 0 {
			return false
		}
	}
	return true
}

type blsScalar struct {
	e fr.Element
}

func asBLSScalar(o Scalar) *blsScalar {
	v, ok := o.(*blsScalar)
	if !ok {
		panic("group: scalar is not a bls12-381 scalar")
	}
	return v
}

func (x *blsScalar) Add(o Scalar) Scalar {
	out := &blsScalar{}
	out.e.Add(&x.e, &asBLSScalar(o).e)
	return out
}

func (x *blsScalar) Sub(o Scalar) Scalar {
	out := &blsScalar{}
	out.e.Sub(&x.e, &asBLSScalar(o).e)
	return out
}

func (x *blsScalar) Mul(o Scalar) Scalar {
	out := &blsScalar{}
	out.e.Mul(&x.e, &asBLSScalar(o).e)
	return out
}

func (x *blsScalar) Neg() Scalar {
	out := &blsScalar{}
	out.e.Neg(&x.e)
	return out
}

func (x *blsScalar) Equal(o Scalar) bool { return x.e.Equal(&asBLSScalar(o).e) }
func (x *blsScalar) IsZero() bool { return x.e.IsZero() }

func (x *blsScalar) Bytes() []byte {
	b := x.e.Bytes()
	return b[:]
}

// littleEndian returns the scalar in the byte order blst multiplies with.
func (x *blsScalar) littleEndian() []byte {
	be := x.e.Bytes()
	le := make([]byte, len(be))
	for i := range be {
		le[len(be)-1-i] = be[i]
	}
	return le
}

type blsPoint struct {
	p blst.P1
}

func asBLSPoint(o Point) *blsPoint {
	v, ok := o.(*blsPoint)
	if !ok {
		panic("group: point is not a bls12-381 point")
	}
	return v
}

func (a *blsPoint) Add(o Point) Point {
	return &blsPoint{p: *a.p.Add(&asBLSPoint(o).p)}
}

func (a *blsPoint) Sub(o Point) Point {
	return &blsPoint{p: *a.p.Sub(&asBLSPoint(o).p)}
}

func (a *blsPoint) Mul(s Scalar) Point {
	return &blsPoint{p: *a.p.Mult(asBLSScalar(s).littleEndian(), 255)}
}

func (a *blsPoint) Equal(o Point) bool { return a.p.Equals(&asBLSPoint(o).p) }
func (a *blsPoint) IsIdentity() bool { return isBLSInfinity(a.p.Compress()) }
func (a *blsPoint) Bytes() []byte { return a.p.Compress() }

func init() {
	Register(newBLSSuite())
}
