package confidential

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
	"github.com/eth2030/vcl/metrics"
)

// RangeProof shows that a credit's value lies in [0, 2^Bits). It holds N
// bit commitments with their OR proofs and a Schnorr proof that
//
//	D = C - sum(2^i * Ci) = delta*H
//
// which ties the bits back to C. One Fiat-Shamir challenge covers every
// sub-proof. A RangeProof is immutable.
type RangeProof struct {
	params    Params
	challenge group.Scalar
	bits      []bitProof
	response  group.Scalar
}

// Params returns the parameters recorded in the proof header.
func (p *RangeProof) Params() Params { return p.params }

// ProveRange proves that secret's value fits in the engine's bit width.
func (e *Engine) ProveRange(secret *OwnerSecret) (*RangeProof, error) {
	start := time.Now()
	if err := e.checkSecret(secret); err != nil {
		return nil, err
	}
	n := e.params.Bits
	if n < MaxBits && secret.CreditValue>>uint(n) != 0 {
		return nil, errors.Wrapf(ErrValueOutOfDomain, "value needs more than %d bits", n)
	}
	suite := e.params.Suite
	g, h := suite.Generator(), suite.BlindingGenerator()
	credit := e.creditOf(secret)

	// Per bit: blinding, real-branch nonce, simulated challenge and response.
	// Plus the Schnorr nonce.
	rnd, err := e.randomScalars(4*n + 1)
	if err != nil {
		return nil, errors.Wrap(err, "prove range")
	}

	header := e.params.rangeHeader()
	t, err := e.params.newTranscript(rangeDomain, header)
	if err != nil {
		return nil, err
	}
	t.Append("C", credit.Bytes())

	provers := make([]*bitProver, n)
	announces := make([][2]group.Point, n)
	delta := secret.SecretBlinding
	for i := 0; i < n; i++ {
		bit := uint8(secret.CreditValue >> uint(i) & 1)
		r := rnd[4*i]
		ci := h.Mul(r)
		if bit == 1 {
			ci = ci.Add(g)
		}
		provers[i] = newBitProver(suite, bit, r, ci)
		delta = delta.Sub(pow2(suite, i).Mul(r))
		t.Append("C_"+strconv.Itoa(i), ci.Bytes())
	}
	for i, p := range provers {
		a, err := p.commit(rnd[4*i+1], rnd[4*i+2], rnd[4*i+3])
		if err != nil {
			return nil, err
		}
		announces[i] = a
	}
	for i := range announces {
		t.Append("A0_"+strconv.Itoa(i), announces[i][0].Bytes())
		t.Append("A1_"+strconv.Itoa(i), announces[i][1].Bytes())
	}
	nonce := rnd[4*n]
	t.Append("R", h.Mul(nonce).Bytes())

	c := e.params.challengeScalar(t, "c")

	proof := &RangeProof{
		params:    e.params,
		challenge: c,
		bits:      make([]bitProof, n),
		response:  nonce.Add(c.Mul(delta)),
	}
	for i, p := range provers {
		if err := p.receiveChallenge(c); err != nil {
			return nil, err
		}
		if err := p.respondReal(); err != nil {
			return nil, err
		}
		if err := p.respondSimulated(); err != nil {
			return nil, err
		}
		if proof.bits[i], err = p.finish(); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	e.metrics.ProofGenerated(metrics.KindRange, elapsed)
	e.log.Debug("range proof generated", "bits", n, "elapsed", elapsed)
	return proof, nil
}

// VerifyRange reports whether proof shows that credit's value is in range.
// It returns false for mismatched suites, for proofs wider than the engine's
// bit width and for any failed check. It never panics on decoded input.
func (e *Engine) VerifyRange(credit *ConfidentialCredit, proof *RangeProof) bool {
	start := time.Now()
	ok, reason := e.verifyRange(credit, proof)
	elapsed := time.Since(start)
	e.metrics.Verified(metrics.KindRange, ok, elapsed)
	if ok {
		e.log.Debug("range proof verified", "bits", proof.params.Bits, "elapsed", elapsed)
	} else {
		e.log.Debug("range proof rejected", "reason", reason, "elapsed", elapsed)
	}
	return ok
}

func (e *Engine) verifyRange(credit *ConfidentialCredit, proof *RangeProof) (bool, string) {
	if credit == nil || credit.point == nil || proof == nil || proof.params.Suite == nil {
		return false, "missing input"
	}
	p := proof.params
	if credit.suite.ID() != p.Suite.ID() {
		return false, "suite mismatch"
	}
	if p.Bits > e.params.Bits {
		return false, "proof wider than policy"
	}
	if len(proof.bits) != p.Bits {
		return false, "bit count mismatch"
	}
	if credit.point.IsIdentity() {
		return false, "identity credit"
	}
	suite := p.Suite
	h := suite.BlindingGenerator()
	c := proof.challenge

	t, err := p.newTranscript(rangeDomain, p.rangeHeader())
	if err != nil {
		return false, err.Error()
	}
	t.Append("C", credit.Bytes())

	sum := suite.Identity()
	for i, b := range proof.bits {
		if b.commitment.IsIdentity() {
			return false, "identity bit commitment"
		}
		t.Append("C_"+strconv.Itoa(i), b.commitment.Bytes())
		sum = sum.Add(b.commitment.Mul(pow2(suite, i)))
	}
	for i, b := range proof.bits {
		a := b.announcements(suite, c)
		t.Append("A0_"+strconv.Itoa(i), a[0].Bytes())
		t.Append("A1_"+strconv.Itoa(i), a[1].Bytes())
	}
	// R = s*H - c*D
	d := credit.point.Sub(sum)
	t.Append("R", h.Mul(proof.response).Sub(d.Mul(c)).Bytes())

	if !p.challengeScalar(t, "c").Equal(c) {
		return false, "challenge mismatch"
	}
	return true, ""
}

// pow2 returns 2^i as a scalar, i < 64.
func pow2(suite group.Suite, i int) group.Scalar {
	return suite.ScalarFromUint64(1 << uint(i))
}
