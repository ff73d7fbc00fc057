package group

// BN254 (alt_bn128) G1 suite backed by gnark-crypto.
//
// G1 has cofactor 1, so every on-curve point is in the prime-order group.
// Scalars encode as 32 big-endian bytes below r; points use the 32-byte
// compressed affine encoding.

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	bn254HMessage = []byte("pedersen-h")
	bn254HDST     = []byte("VCL-V01-CS01-with-BN254G1_XMD:SHA-256_SVDW_RO_")
)

type bn254Suite struct {
	g, h bn254.G1Jac
}

func newBN254Suite() *bn254Suite {
	s := &bn254Suite{}
	g, _, _, _ := bn254.Generators()
	s.g = g
	h, err := bn254.HashToG1(bn254HMessage, bn254HDST)
	if err != nil {
		panic("group: bn254 hash to curve: " + err.Error())
	}
	s.h.FromAffine(&h)
	return s
}

func (s *bn254Suite) ID() SuiteID { return BN254 }
func (s *bn254Suite) Name() string { return "bn254" }
func (s *bn254Suite) ScalarLen() int { return fr.Bytes }
func (s *bn254Suite) PointLen() int { return bn254.SizeOfG1AffineCompressed }

func (s *bn254Suite) Generator() Point {
	out := &bn254Point{}
	out.p.Set(&s.g)
	return out
}

func (s *bn254Suite) BlindingGenerator() Point {
	out := &bn254Point{}
	out.p.Set(&s.h)
	return out
}

func (s *bn254Suite) Identity() Point {
	// Jacobian (1, 1, 0) is the point at infinity.
	out := &bn254Point{}
	out.p.X.SetOne()
	out.p.Y.SetOne()
	out.p.Z.SetZero()
	return out
}

func (s *bn254Suite) ScalarFromUint64(v uint64) Scalar {
	out := &bn254Scalar{}
	out.e.SetUint64(v)
	return out
}

func (s *bn254Suite) ScalarFromWide(b []byte) Scalar {
	if len(b) != WideScalarLen {
		panic("group: wide scalar must be 64 bytes")
	}
	out := &bn254Scalar{}
	out.e.SetBigInt(new(big.Int).SetBytes(b))
	return out
}

func (s *bn254Suite) DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != fr.Bytes {
		return nil, ErrMalformedEncoding
	}
	out := &bn254Scalar{}
	if err := out.e.SetBytesCanonical(b); err != nil {
		return nil, ErrMalformedEncoding
	}
	return out, nil
}

func (s *bn254Suite) DecodePoint(b []byte) (Point, error) {
	if len(b) != bn254.SizeOfG1AffineCompressed {
		return nil, ErrMalformedEncoding
	}
	var aff bn254.G1Affine
	n, err := aff.SetBytes(b)
	if err != nil || n != len(b) {
		return nil, ErrMalformedEncoding
	}
	if !aff.IsInfinity() && !aff.IsInSubGroup() {
		return nil, ErrMalformedEncoding
	}
	enc := aff.Bytes()
	if !bytes.Equal(enc[:], b) {
		return nil, ErrMalformedEncoding
	}
	out := &bn254Point{}
	out.p.FromAffine(&aff)
	return out, nil
}

type bn254Scalar struct {
	e fr.Element
}

func asBN254Scalar(o Scalar) *bn254Scalar {
	v, ok := o.(*bn254Scalar)
	if !ok {
		panic("group: scalar is not a bn254 scalar")
	}
	return v
}

func (x *bn254Scalar) Add(o Scalar) Scalar {
	out := &bn254Scalar{}
	out.e.Add(&x.e, &asBN254Scalar(o).e)
	return out
}

func (x *bn254Scalar) Sub(o Scalar) Scalar {
	out := &bn254Scalar{}
	out.e.Sub(&x.e, &asBN254Scalar(o).e)
	return out
}

func (x *bn254Scalar) Mul(o Scalar) Scalar {
	out := &bn254Scalar{}
	out.e.Mul(&x.e, &asBN254Scalar(o).e)
	return out
}

func (x *bn254Scalar) Neg() Scalar {
	out := &bn254Scalar{}
	out.e.Neg(&x.e)
	return out
}

func (x *bn254Scalar) Equal(o Scalar) bool { return x.e.Equal(&asBN254Scalar(o).e) }
func (x *bn254Scalar) IsZero() bool { return x.e.IsZero() }

func (x *bn254Scalar) Bytes() []byte {
	b := x.e.Bytes()
	return b[:]
}

func (x *bn254Scalar) bigInt() *big.Int {
	return x.e.BigInt(new(big.Int))
}

type bn254Point struct {
	p bn254.G1Jac
}

func asBN254Point(o Point) *bn254Point {
	v, ok := o.(*bn254Point)
	if !ok {
		panic("group: point is not a bn254 point")
	}
	return v
}

func (a *bn254Point) Add(o Point) Point {
	out := &bn254Point{}
	out.p.Set(&a.p)
	out.p.AddAssign(&asBN254Point(o).p)
	return out
}

func (a *bn254Point) Sub(o Point) Point {
	out := &bn254Point{}
	out.p.Set(&a.p)
	out.p.SubAssign(&asBN254Point(o).p)
	return out
}

func (a *bn254Point) Mul(s Scalar) Point {
	out := &bn254Point{}
	out.p.ScalarMultiplication(&a.p, asBN254Scalar(s).bigInt())
	return out
}

func (a *bn254Point) Equal(o Point) bool { return a.p.Equal(&asBN254Point(o).p) }
func (a *bn254Point) IsIdentity() bool { return a.p.Z.IsZero() }

func (a *bn254Point) Bytes() []byte {
	var aff bn254.G1Affine
	aff.FromJacobian(&a.p)
	b := aff.Bytes()
	return b[:]
}

func init() {
	Register(newBN254Suite())
}
