package confidential

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// errRejected stops a batch at the first failed proof.
var errRejected = errors.New("confidential: proof rejected")

// VerifyRangeBatch verifies independent range proofs concurrently. It
// returns true only if every proof verifies against the credit at the same
// index. The error is non-nil only for mismatched input lengths or when ctx
// ends before the batch is decided.
func (e *Engine) VerifyRangeBatch(ctx context.Context, credits []*ConfidentialCredit, proofs []*RangeProof) (bool, error) {
	if len(credits) != len(proofs) {
		return false, errors.Errorf("confidential: %d credits, %d proofs", len(credits), len(proofs))
	}
	return verifyAll(ctx, len(proofs), func(i int) bool {
		return e.VerifyRange(credits[i], proofs[i])
	})
}

// SumBalanceClaim pairs a sum-balance proof with the credits it covers.
type SumBalanceClaim struct {
	Credits [3]*ConfidentialCredit
	Proof   *SumBalanceProof
}

// VerifySumBalanceBatch verifies independent sum-balance claims
// concurrently, with the same result contract as VerifyRangeBatch.
func (e *Engine) VerifySumBalanceBatch(ctx context.Context, claims []SumBalanceClaim) (bool, error) {
	return verifyAll(ctx, len(claims), func(i int) bool {
		return e.VerifySumBalance(claims[i].Credits, claims[i].Proof)
	})
}

func verifyAll(ctx context.Context, n int, verify func(i int) bool) (bool, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !verify(i) {
				return errRejected
			}
			return nil
		})
	}
	err := g.Wait()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errRejected):
		return false, nil
	default:
		return false, err
	}
}
