package confidential

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/crypto/transcript"
	"github.com/eth2030/vcl/metrics"
)

// SumBalanceProof shows that the ordered credits (C1, C2, C3) satisfy
// v1 = v2 + v3 and that the prover knows all three openings.
//
// With v1 eliminated the witness is (v2, b2, v3, b3, b1). The prover
// announces
//
//	T2 = n1*G + n2*H
//	T3 = n3*G + n4*H
//	T1 = (n1+n3)*G + n5*H
//
// and answers m_i = n_i + c*w_i. Only (c, m1..m5) are transmitted; the
// verifier recomputes T1..T3 and the challenge.
type SumBalanceProof struct {
	params Params
	c      group.Scalar
	m      [5]group.Scalar
}

// Params returns the parameters recorded in the proof header.
func (p *SumBalanceProof) Params() Params { return p.params }

// ProveSumBalance proves value(s1) = value(s2) + value(s3) for the credits
// the three secrets open. It fails with ErrUnbalancedInput, producing no
// proof, when the relation does not hold over the integers.
func (e *Engine) ProveSumBalance(s1, s2, s3 *OwnerSecret) (*SumBalanceProof, error) {
	start := time.Now()
	for _, s := range []*OwnerSecret{s1, s2, s3} {
		if err := e.checkSecret(s); err != nil {
			return nil, err
		}
	}
	sum := new(uint256.Int).Add(uint256.NewInt(s2.CreditValue), uint256.NewInt(s3.CreditValue))
	if !sum.Eq(uint256.NewInt(s1.CreditValue)) {
		return nil, ErrUnbalancedInput
	}

	suite := e.params.Suite
	g, h := suite.Generator(), suite.BlindingGenerator()
	n, err := e.randomScalars(5)
	if err != nil {
		return nil, errors.Wrap(err, "prove sum balance")
	}
	w := [5]group.Scalar{
		suite.ScalarFromUint64(s2.CreditValue), s2.SecretBlinding,
		suite.ScalarFromUint64(s3.CreditValue), s3.SecretBlinding,
		s1.SecretBlinding,
	}

	credits := [3]*ConfidentialCredit{e.creditOf(s1), e.creditOf(s2), e.creditOf(s3)}
	t, err := e.params.newTranscript(balanceDomain, e.params.balanceHeader())
	if err != nil {
		return nil, err
	}
	appendCredits(t, credits)
	t.Append("T1", g.Mul(n[0].Add(n[2])).Add(h.Mul(n[4])).Bytes())
	t.Append("T2", g.Mul(n[0]).Add(h.Mul(n[1])).Bytes())
	t.Append("T3", g.Mul(n[2]).Add(h.Mul(n[3])).Bytes())
	c := e.params.challengeScalar(t, "c")

	proof := &SumBalanceProof{params: e.params, c: c}
	for i := range proof.m {
		proof.m[i] = n[i].Add(c.Mul(w[i]))
	}

	elapsed := time.Since(start)
	e.metrics.ProofGenerated(metrics.KindBalance, elapsed)
	e.log.Debug("sum-balance proof generated", "elapsed", elapsed)
	return proof, nil
}

// VerifySumBalance reports whether proof shows value(credits[0]) =
// value(credits[1]) + value(credits[2]).
func (e *Engine) VerifySumBalance(credits [3]*ConfidentialCredit, proof *SumBalanceProof) bool {
	start := time.Now()
	ok, reason := verifySumBalance(credits, proof)
	elapsed := time.Since(start)
	e.metrics.Verified(metrics.KindBalance, ok, elapsed)
	if ok {
		e.log.Debug("sum-balance proof verified", "elapsed", elapsed)
	} else {
		e.log.Debug("sum-balance proof rejected", "reason", reason, "elapsed", elapsed)
	}
	return ok
}

func verifySumBalance(credits [3]*ConfidentialCredit, proof *SumBalanceProof) (bool, string) {
	if proof == nil || proof.params.Suite == nil {
		return false, "missing proof"
	}
	p := proof.params
	for _, cr := range credits {
		if cr == nil || cr.point == nil {
			return false, "missing credit"
		}
		if cr.suite.ID() != p.Suite.ID() {
			return false, "suite mismatch"
		}
		if cr.point.IsIdentity() {
			return false, "identity credit"
		}
	}
	suite := p.Suite
	g, h := suite.Generator(), suite.BlindingGenerator()
	c, m := proof.c, proof.m

	t, err := p.newTranscript(balanceDomain, p.balanceHeader())
	if err != nil {
		return false, err.Error()
	}
	appendCredits(t, credits)
	// T1 = (m1+m3)*G + m5*H - c*C1
	t.Append("T1", g.Mul(m[0].Add(m[2])).Add(h.Mul(m[4])).Sub(credits[0].point.Mul(c)).Bytes())
	// T2 = m1*G + m2*H - c*C2
	t.Append("T2", g.Mul(m[0]).Add(h.Mul(m[1])).Sub(credits[1].point.Mul(c)).Bytes())
	// T3 = m3*G + m4*H - c*C3
	t.Append("T3", g.Mul(m[2]).Add(h.Mul(m[3])).Sub(credits[2].point.Mul(c)).Bytes())

	if !p.challengeScalar(t, "c").Equal(c) {
		return false, "challenge mismatch"
	}
	return true, ""
}

func appendCredits(t transcript.Transcript, credits [3]*ConfidentialCredit) {
	t.Append("C1", credits[0].Bytes())
	t.Append("C2", credits[1].Bytes())
	t.Append("C3", credits[2].Bytes())
}
