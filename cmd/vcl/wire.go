package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/vcl/crypto/confidential"
	"github.com/eth2030/vcl/crypto/group"
)

// openingJSON is the holder-side form of an OwnerSecret. It is only ever
// read from stdin or written to stdout.
type openingJSON struct {
	Value    uint64        `json:"value"`
	Blinding hexutil.Bytes `json:"blinding"`
}

func newOpeningJSON(s *confidential.OwnerSecret) openingJSON {
	return openingJSON{Value: s.CreditValue, Blinding: s.SecretBlinding.Bytes()}
}

func (o openingJSON) secret(suite group.Suite) (*confidential.OwnerSecret, error) {
	b, err := suite.DecodeScalar(o.Blinding)
	if err != nil {
		return nil, fmt.Errorf("opening blinding: %w", err)
	}
	return confidential.NewOwnerSecret(suite, o.Value, b), nil
}

type makeCreditOutput struct {
	Params  string                           `json:"params"`
	Credit  *confidential.ConfidentialCredit `json:"credit"`
	Opening openingJSON                      `json:"opening"`
}

type proveRangeOutput struct {
	Credit *confidential.ConfidentialCredit `json:"credit,omitempty"`
	Proof  *confidential.RangeProof         `json:"proof"`
}

type proveBalanceInput struct {
	Openings []openingJSON `json:"openings"`
}

type proveBalanceOutput struct {
	Credits []*confidential.ConfidentialCredit `json:"credits,omitempty"`
	Proof   *confidential.SumBalanceProof      `json:"proof"`
}

type verifyOutput struct {
	Valid  bool   `json:"valid"`
	Params string `json:"params,omitempty"`
}

type suiteInfo struct {
	ID        uint8  `json:"id"`
	Name      string `json:"name"`
	ScalarLen int    `json:"scalarLen"`
	PointLen  int    `json:"pointLen"`
}

type suitesOutput struct {
	Suites   []suiteInfo `json:"suites"`
	Hashes   []string    `json:"hashes"`
	Defaults string      `json:"defaults"`
}

// readJSON decodes a single JSON document. Syntax and type errors are the
// caller's fault and surface as ErrMalformedEncoding.
func readJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", confidential.ErrMalformedEncoding, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
