package transcript

import "github.com/gtank/merlin"

// merlinTranscript delegates to a STROBE-128 merlin transcript, which does
// its own length framing and absorbs every extracted challenge.
type merlinTranscript struct {
	t *merlin.Transcript
}

func newMerlinTranscript(domain string) *merlinTranscript {
	return &merlinTranscript{t: merlin.NewTranscript(domain)}
}

func (m *merlinTranscript) Append(label string, msg []byte) {
	m.t.AppendMessage([]byte(label), msg)
}

func (m *merlinTranscript) Challenge(label string) []byte {
	return m.t.ExtractBytes([]byte(label), ChallengeLen)
}
