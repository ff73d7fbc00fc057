package group

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Encodable is anything with a canonical byte encoding.
type Encodable interface {
	Bytes() []byte
}

// EncodeHex returns the 0x-prefixed lowercase hex form of x's canonical
// encoding.
func EncodeHex(x Encodable) string {
	return hexutil.Encode(x.Bytes())
}

// DecodeScalarHex parses the hex form produced by EncodeHex.
func DecodeScalarHex(s Suite, text string) (Scalar, error) {
	b, err := hexutil.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return s.DecodeScalar(b)
}

// DecodePointHex parses the hex form produced by EncodeHex.
func DecodePointHex(s Suite, text string) (Point, error) {
	b, err := hexutil.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return s.DecodePoint(b)
}
