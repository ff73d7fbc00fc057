// Package transcript implements Fiat-Shamir transcripts. A transcript
// absorbs labeled public messages in order and squeezes verifier challenges
// from everything absorbed so far. The hash behind a transcript is selected
// by HashID, which proofs record in their headers.
package transcript

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ChallengeLen is the number of bytes Challenge returns. It matches
// group.WideScalarLen so a challenge reduces to a near-uniform scalar.
const ChallengeLen = 64

// ErrUnknownHash is returned for hash IDs or names that are not supported.
var ErrUnknownHash = errors.New("transcript: unknown hash")

// HashID identifies the transcript hash in serialized proofs.
type HashID uint8

const (
	SHA3_256   HashID = 1
	Keccak256  HashID = 2
	Blake2b256 HashID = 3
	Merlin     HashID = 4
)

var hashNames = map[HashID]string{
	SHA3_256:   "sha3-256",
	Keccak256:  "keccak256",
	Blake2b256: "blake2b-256",
	Merlin:     "merlin",
}

func (id HashID) String() string {
	if name, ok := hashNames[id]; ok {
		return name
	}
	return fmt.Sprintf("hash(%d)", uint8(id))
}

// Valid reports whether id names a supported hash.
func (id HashID) Valid() bool {
	_, ok := hashNames[id]
	return ok
}

// ParseHashID maps a hash name to its ID.
func ParseHashID(name string) (HashID, error) {
	for id, n := range hashNames {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}

// HashIDs returns every supported hash ordered by ID.
func HashIDs() []HashID {
	out := make([]HashID, 0, len(hashNames))
	for id := range hashNames {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transcript is a Fiat-Shamir transcript. It is not safe for concurrent use.
type Transcript interface {
	// Append absorbs msg under label.
	Append(label string, msg []byte)
	// Challenge returns ChallengeLen bytes bound to every message absorbed
	// so far and to label, then absorbs the output so that later challenges
	// depend on it.
	Challenge(label string) []byte
}

// New starts a transcript for protocol domain using the hash id.
func New(id HashID, domain string) (Transcript, error) {
	switch id {
	case SHA3_256:
		return newHashTranscript(sha3.New256, domain), nil
	case Keccak256:
		return newHashTranscript(sha3.NewLegacyKeccak256, domain), nil
	case Blake2b256:
		return newHashTranscript(newBlake2b256, domain), nil
	case Merlin:
		return newMerlinTranscript(domain), nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownHash, uint8(id))
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only a key longer than 64 bytes fails.
		panic(err)
	}
	return h
}

// hashTranscript frames every message into a running hash. Challenges
// expand the current digest to ChallengeLen bytes with a counter.
type hashTranscript struct {
	newHash func() hash.Hash
	state   hash.Hash
}

func newHashTranscript(newHash func() hash.Hash, domain string) *hashTranscript {
	t := &hashTranscript{newHash: newHash, state: newHash()}
	t.Append("dom-sep", []byte(domain))
	return t
}

func (t *hashTranscript) Append(label string, msg []byte) {
	writeFrame(t.state, label, msg)
}

func (t *hashTranscript) Challenge(label string) []byte {
	writeFrame(t.state, "challenge", []byte(label))
	digest := t.state.Sum(nil)

	out := make([]byte, 0, ChallengeLen)
	for ctr := byte(0); len(out) < ChallengeLen; ctr++ {
		h := t.newHash()
		h.Write(digest)
		h.Write([]byte{ctr})
		out = h.Sum(out)
	}
	out = out[:ChallengeLen]

	writeFrame(t.state, label, out)
	return out
}

// writeFrame writes len(label) | label | len(msg) | msg so that distinct
// message sequences never hash to the same byte stream.
func writeFrame(h hash.Hash, label string, msg []byte) {
	var n [8]byte
	binary.BigEndian.PutUint32(n[:4], uint32(len(label)))
	h.Write(n[:4])
	h.Write([]byte(label))
	binary.BigEndian.PutUint64(n[:], uint64(len(msg)))
	h.Write(n[:])
	h.Write(msg)
}
