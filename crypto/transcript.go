package crypto

import (
	"github.com/codahale/thyrse"
	"github.com/gtank/ristretto255"
)

// Domain tags separate the Fiat-Shamir transcripts of the two
// non-interactive protocols in this package so that a transcript
// produced for one can never be replayed against the other.
const (
	domainRangeProof    = "veilcoin-range-proof-v1"
	domainRingSignature = "veilcoin-ring-signature-v1"
)

// Transcript accumulates protocol messages and derives Fiat-Shamir
// challenges from them, in the order the messages were mixed in.
type Transcript struct {
	st *thyrse.State
}

// NewTranscript starts a transcript bound to a fixed domain tag.
func NewTranscript(domain string) *Transcript {
	return &Transcript{st: thyrse.New(domain)}
}

// AppendMessage mixes a labeled message into the transcript state.
func (t *Transcript) AppendMessage(label string, data []byte) {
	t.st.Mix(label, data)
}

// AppendScalar mixes a scalar's canonical encoding into the transcript.
func (t *Transcript) AppendScalar(label string, s Scalar) {
	t.st.Mix(label, s.Bytes())
}

// AppendPoint mixes a point's canonical encoding into the transcript.
func (t *Transcript) AppendPoint(label string, p Point) {
	t.st.Mix(label, p.Bytes())
}

// AppendUint64 mixes a little-endian u64 into the transcript.
func (t *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	t.st.Mix(label, buf[:])
}

// ChallengeScalar derives a uniform scalar from the current transcript
// state. Each call advances the underlying sponge, so successive calls
// under different labels yield independent challenges.
func (t *Transcript) ChallengeScalar(label string) Scalar {
	out := t.st.Derive(label, nil, 64)
	s, err := ristretto255.NewScalar().SetUniformBytes(out)
	if err != nil {
		panic("crypto: deriving challenge scalar: " + err.Error())
	}
	return Scalar{s: s}
}

// ChallengeBytes derives n raw pseudorandom bytes from the transcript,
// used for blinding material that need not be a group scalar.
func (t *Transcript) ChallengeBytes(label string, n int) []byte {
	return t.st.Derive(label, nil, n)
}

// Clone returns an independent copy of the transcript's current state,
// used to derive several related challenges from the same prefix of
// mixed messages (e.g. one per ring position).
func (t *Transcript) Clone() *Transcript {
	return &Transcript{st: t.st.Clone()}
}
