package confidential

import (
	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
)

var (
	// ErrMalformedEncoding is returned when external bytes do not decode to a
	// valid scalar, point, credit or opening.
	ErrMalformedEncoding = group.ErrMalformedEncoding

	// ErrInconsistentSecret is returned when an OwnerSecret does not open the
	// credit it was paired with.
	ErrInconsistentSecret = errors.New("confidential: secret does not open credit")

	// ErrUnbalancedInput is returned by ProveSumBalance when v1 != v2 + v3.
	ErrUnbalancedInput = errors.New("confidential: unbalanced input")

	// ErrValueOutOfDomain is returned when a value needs more bits than the
	// range proof width.
	ErrValueOutOfDomain = errors.New("confidential: value out of domain")

	// ErrMalformedProof is returned when a proof encoding is structurally
	// invalid.
	ErrMalformedProof = errors.New("confidential: malformed proof")

	// ErrSuiteMismatch is returned when inputs belong to different suites.
	ErrSuiteMismatch = errors.New("confidential: suite mismatch")

	// ErrInvalidParams is returned for unsupported parameter combinations.
	ErrInvalidParams = errors.New("confidential: invalid params")
)
