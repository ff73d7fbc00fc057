// Package confidential implements confidential credits: Pedersen commitments
// to 64-bit values together with non-interactive zero-knowledge proofs over
// them.
//
// A holder issues a credit with MakeCredit and keeps the returned
// OwnerSecret. With it the holder can prove that the committed value lies in
// [0, 2^N) (ProveRange) or that one credit's value equals the sum of two
// others (ProveSumBalance). Anyone holding only the public credits can check
// those proofs with VerifyRange and VerifySumBalance.
//
// Proofs are self-describing: their binary encoding starts with a header
// naming the protocol version, group suite, transcript hash and, for range
// proofs, the bit width. A proof produced under one deployment configuration
// therefore keeps verifying after the defaults change.
//
// Verification never returns an error for a well-formed proof that fails
// its checks; it returns false. Only structurally malformed encodings are
// reported, as ErrMalformedProof.
package confidential
