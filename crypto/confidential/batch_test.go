package confidential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/crypto/transcript"
)

func TestVerifyRangeBatch(t *testing.T) {
	e := newTestEngine(t, testParams(t, group.Ristretto255, transcript.SHA3_256, 16), 70)
	var (
		credits []*ConfidentialCredit
		proofs  []*RangeProof
	)
	for v := uint64(0); v < 12; v++ {
		c, p := proveRange(t, e, v*1000)
		credits = append(credits, c)
		proofs = append(proofs, p)
	}

	ok, err := e.VerifyRangeBatch(context.Background(), credits, proofs)
	require.NoError(t, err)
	require.True(t, ok)

	// Misaligned pairs are rejected.
	proofs[3], proofs[4] = proofs[4], proofs[3]
	ok, err = e.VerifyRangeBatch(context.Background(), credits, proofs)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = e.VerifyRangeBatch(context.Background(), credits, proofs[:5])
	require.Error(t, err)

	ok, err = e.VerifyRangeBatch(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRangeBatch_Canceled(t *testing.T) {
	e := newTestEngine(t, testParams(t, group.Ristretto255, transcript.SHA3_256, 8), 71)
	c, p := proveRange(t, e, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := e.VerifyRangeBatch(ctx, []*ConfidentialCredit{c}, []*RangeProof{p})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ok)
}

func TestVerifySumBalanceBatch(t *testing.T) {
	e := newTestEngine(t, DefaultParams(), 72)
	var claims []SumBalanceClaim
	for i := uint64(1); i <= 6; i++ {
		f := proveBalance(t, e, i*10, i)
		claims = append(claims, SumBalanceClaim{Credits: f.credits, Proof: f.proof})
	}

	ok, err := e.VerifySumBalanceBatch(context.Background(), claims)
	require.NoError(t, err)
	require.True(t, ok)

	claims[2].Proof = claims[1].Proof
	ok, err = e.VerifySumBalanceBatch(context.Background(), claims)
	require.NoError(t, err)
	require.False(t, ok)
}
