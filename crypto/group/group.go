// Package group provides the scalar and point algebra used by the
// confidential credit protocols. A Suite bundles a prime-order group, two
// independent generators G and H, and the canonical fixed-width encodings of
// its elements. Suites are registered by numeric ID so that serialized proofs
// can name the backend they were produced with.
package group

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
)

// WideScalarLen is the number of uniform bytes reduced into one scalar. Twice
// the width of every supported order keeps the reduction bias negligible.
const WideScalarLen = 64

// ErrMalformedEncoding is returned when external bytes do not decode to a
// valid scalar or subgroup point.
var ErrMalformedEncoding = errors.New("group: malformed encoding")

// ErrUnknownSuite is returned by registry lookups for unregistered suites.
var ErrUnknownSuite = errors.New("group: unknown suite")

// SuiteID identifies a suite in serialized proofs. IDs are never reused.
type SuiteID uint8

const (
	Ristretto255 SuiteID = 1
	BN254        SuiteID = 2
	BLS12381     SuiteID = 3
)

// Scalar is an element of a suite's scalar field. Implementations are
// immutable: every operation returns a fresh value. Mixing scalars of
// different suites panics.
type Scalar interface {
	Add(o Scalar) Scalar
	Sub(o Scalar) Scalar
	Mul(o Scalar) Scalar
	Neg() Scalar
	Equal(o Scalar) bool
	IsZero() bool
	// Bytes returns the canonical fixed-width encoding.
	Bytes() []byte
}

// Point is an element of a suite's prime-order group. Implementations are
// immutable. Mixing points of different suites panics.
type Point interface {
	Add(o Point) Point
	Sub(o Point) Point
	Mul(s Scalar) Point
	Equal(o Point) bool
	IsIdentity() bool
	// Bytes returns the canonical fixed-width encoding.
	Bytes() []byte
}

// Suite is a pluggable group backend.
type Suite interface {
	ID() SuiteID
	Name() string

	ScalarLen() int
	PointLen() int

	// Generator returns the value generator G.
	Generator() Point
	// BlindingGenerator returns H, derived by hashing to the group so that
	// nobody knows log_G(H).
	BlindingGenerator() Point
	Identity() Point

	ScalarFromUint64(v uint64) Scalar
	// ScalarFromWide reduces WideScalarLen bytes modulo the group order.
	ScalarFromWide(b []byte) Scalar

	DecodeScalar(b []byte) (Scalar, error)
	DecodePoint(b []byte) (Point, error)
}

// RandomScalar draws a uniformly distributed scalar from r.
func RandomScalar(s Suite, r io.Reader) (Scalar, error) {
	var wide [WideScalarLen]byte
	if _, err := io.ReadFull(r, wide[:]); err != nil {
		return nil, fmt.Errorf("group: read randomness: %w", err)
	}
	return s.ScalarFromWide(wide[:]), nil
}

// MultiScalarMul returns sum(scalars[i] * points[i]).
func MultiScalarMul(s Suite, scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("group: scalar and point counts differ")
	}
	acc := s.Identity()
	for i := range points {
		acc = acc.Add(points[i].Mul(scalars[i]))
	}
	return acc
}

var (
	registryMu sync.RWMutex
	registry   = make(map[SuiteID]Suite)
)

// Register makes a suite available to Lookup. Registering the same ID twice
// panics.
func Register(s Suite) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.ID()]; dup {
		panic(fmt.Sprintf("group: suite %d registered twice", s.ID()))
	}
	registry[s.ID()] = s
}

// Lookup returns the suite registered under id.
func Lookup(id SuiteID) (Suite, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownSuite, id)
	}
	return s, nil
}

// LookupByName returns the suite with the given name.
func LookupByName(name string) (Suite, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, s := range registry {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
}

// Suites returns every registered suite ordered by ID.
func Suites() []Suite {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Suite, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// belowOrder reports whether the unsigned integer encoded in b is strictly
// less than order. littleEndian selects the byte order of b.
func belowOrder(b []byte, order *big.Int, littleEndian bool) bool {
	buf := b
	if littleEndian {
		buf = make([]byte, len(b))
		for i := range b {
			buf[len(b)-1-i] = b[i]
		}
	}
	return new(big.Int).SetBytes(buf).Cmp(order) < 0
}
