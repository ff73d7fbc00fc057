package confidential

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/eth2030/vcl/crypto/group"
)

// A bit proof shows that Ci = b*G + r*H opens to b = 0 or b = 1 without
// revealing b. It is the OR of two Schnorr proofs of knowledge of log_H:
//
//	branch 0: Y0 = Ci       = r*H
//	branch 1: Y1 = Ci - G   = r*H
//
// The prover runs the true branch honestly and simulates the other one by
// choosing its challenge and response first. The branch challenges must sum
// to the shared Fiat-Shamir challenge, so exactly one of them is free.

// bitState is a step of the bit prover. Steps run strictly in order.
type bitState uint8

const (
	commitBothBranches bitState = iota
	deriveSharedChallenge
	respondRealBranch
	respondSimulatedBranch
	bitDone
)

func (s bitState) String() string {
	switch s {
	case commitBothBranches:
		return "CommitBothBranches"
	case deriveSharedChallenge:
		return "DeriveSharedChallenge"
	case respondRealBranch:
		return "RespondRealBranch"
	case respondSimulatedBranch:
		return "RespondSimulatedBranch"
	case bitDone:
		return "Done"
	}
	return fmt.Sprintf("bitState(%d)", uint8(s))
}

var errBitState = errors.New("confidential: bit prover step out of order")

// bitProof is the transmitted part of one bit proof. The branch-1
// challenge is c - c0 and both branch commitments are recomputed by the
// verifier.
type bitProof struct {
	commitment group.Point
	c0, z0, z1 group.Scalar
}

// bitProver carries one bit proof through its states. It holds secrets and
// is discarded after finish.
type bitProver struct {
	state bitState
	suite group.Suite

	bit        uint8
	blinding   group.Scalar
	commitment group.Point

	// real branch nonce
	nonce group.Scalar
	// simulated branch challenge and response, fixed before the challenge
	simChallenge, simResponse group.Scalar

	announce  [2]group.Point
	challenge group.Scalar
	cs, zs    [2]group.Scalar
}

func newBitProver(suite group.Suite, bit uint8, blinding group.Scalar, commitment group.Point) *bitProver {
	return &bitProver{
		state:      commitBothBranches,
		suite:      suite,
		bit:        bit,
		blinding:   blinding,
		commitment: commitment,
	}
}

func (p *bitProver) expect(s bitState) error {
	if p.state != s {
		return errors.Wrapf(errBitState, "in %s, want %s", p.state, s)
	}
	return nil
}

// branchTarget returns Y_j = Ci - j*G.
func branchTarget(suite group.Suite, commitment group.Point, j uint8) group.Point {
	if j == 0 {
		return commitment
	}
	return commitment.Sub(suite.Generator())
}

// commit fixes both branch announcements. nonce, simChallenge and
// simResponse must be fresh random scalars.
func (p *bitProver) commit(nonce, simChallenge, simResponse group.Scalar) ([2]group.Point, error) {
	if err := p.expect(commitBothBranches); err != nil {
		return [2]group.Point{}, err
	}
	h := p.suite.BlindingGenerator()
	honest, sim := p.bit, 1-p.bit

	p.nonce = nonce
	p.simChallenge, p.simResponse = simChallenge, simResponse
	p.announce[honest] = h.Mul(nonce)
	// A_sim = z_sim*H - c_sim*Y_sim verifies for any (c_sim, z_sim).
	p.announce[sim] = h.Mul(simResponse).Sub(branchTarget(p.suite, p.commitment, sim).Mul(simChallenge))

	p.state = deriveSharedChallenge
	return p.announce, nil
}

// receiveChallenge stores the shared challenge derived after every
// announcement of the enclosing proof is in the transcript.
func (p *bitProver) receiveChallenge(c group.Scalar) error {
	if err := p.expect(deriveSharedChallenge); err != nil {
		return err
	}
	p.challenge = c
	p.state = respondRealBranch
	return nil
}

// respondReal splits the challenge and answers the true branch.
func (p *bitProver) respondReal() error {
	if err := p.expect(respondRealBranch); err != nil {
		return err
	}
	honest := p.bit
	p.cs[honest] = p.challenge.Sub(p.simChallenge)
	p.zs[honest] = p.nonce.Add(p.cs[honest].Mul(p.blinding))
	p.state = respondSimulatedBranch
	return nil
}

// respondSimulated releases the simulated branch values chosen at commit.
func (p *bitProver) respondSimulated() error {
	if err := p.expect(respondSimulatedBranch); err != nil {
		return err
	}
	sim := 1 - p.bit
	p.cs[sim] = p.simChallenge
	p.zs[sim] = p.simResponse
	p.state = bitDone
	return nil
}

// finish returns the transmitted proof and drops the secrets.
func (p *bitProver) finish() (bitProof, error) {
	if err := p.expect(bitDone); err != nil {
		return bitProof{}, err
	}
	out := bitProof{commitment: p.commitment, c0: p.cs[0], z0: p.zs[0], z1: p.zs[1]}
	p.blinding, p.nonce, p.simChallenge, p.simResponse = nil, nil, nil, nil
	return out, nil
}

// announcements recomputes both branch commitments from a transmitted bit
// proof and the shared challenge c:
//
//	A0 = z0*H - c0*Ci
//	A1 = z1*H - (c - c0)*(Ci - G)
func (b bitProof) announcements(suite group.Suite, c group.Scalar) [2]group.Point {
	h := suite.BlindingGenerator()
	c1 := c.Sub(b.c0)
	return [2]group.Point{
		h.Mul(b.z0).Sub(branchTarget(suite, b.commitment, 0).Mul(b.c0)),
		h.Mul(b.z1).Sub(branchTarget(suite, b.commitment, 1).Mul(c1)),
	}
}
