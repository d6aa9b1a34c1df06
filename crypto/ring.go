package crypto

// RingSignature is a linkable, spontaneous, anonymous signature over a
// ring of one-time public keys: it proves the signer knows the
// private key of one ring member without revealing which, and binds a
// key image that uniquely identifies the signer's secret across any
// number of signatures.
type RingSignature struct {
	KeyImage KeyImage
	C0       Scalar
	S        []Scalar
}

// Sign produces a ring signature over message, proving knowledge of
// the private key at ring[secretIndex] (so ring[secretIndex] ==
// secret*B) without revealing secretIndex. It follows the
// closed-loop Fiat-Shamir construction: sample a commitment for the
// true signer, walk the ring forward deriving one challenge per
// position from the previous position's commitments, and close the
// loop by solving for the true signer's response.
func Sign(ring []Point, secretIndex int, secret Scalar, message []byte) (RingSignature, error) {
	n := len(ring)
	if secretIndex < 0 || secretIndex >= n {
		return RingSignature{}, ErrInvalidKey
	}
	if !ScalarBaseMult(secret).Equal(ring[secretIndex]) {
		return RingSignature{}, ErrInvalidKey
	}

	image := GenerateKeyImage(secret, ring[secretIndex])
	hp := Hp(ring[secretIndex])

	s := make([]Scalar, n)
	c := make([]Scalar, n)

	alpha := RandomScalar()
	Lpi := ScalarBaseMult(alpha)
	Rpi := ScalarMult(alpha, hp)

	tr := ringTranscript(ring, image, message)
	idx := (secretIndex + 1) % n
	c[idx] = ringChallenge(tr, Lpi, Rpi)

	for i := idx; i != secretIndex; i = (i + 1) % n {
		s[i] = RandomScalar()
		L := ScalarBaseMult(s[i]).Add(ScalarMult(c[i], ring[i]))
		R := ScalarMult(s[i], Hp(ring[i])).Add(ScalarMult(c[i], image.Point()))
		next := (i + 1) % n
		c[next] = ringChallenge(tr, L, R)
	}

	s[secretIndex] = alpha.Sub(c[secretIndex].Mul(secret))

	return RingSignature{KeyImage: image, C0: c[0], S: s}, nil
}

// VerifyRing checks a ring signature against a ring of public keys and
// a message. It rejects malformed rings, a key image outside the
// prime-order subgroup (DecodeKeyImage already enforces this on the
// wire, so a zero-value KeyImage here indicates an undecoded or
// tampered signature) and any challenge-chain mismatch.
func VerifyRing(sig RingSignature, ring []Point, message []byte) bool {
	n := len(ring)
	if n == 0 || len(sig.S) != n || sig.KeyImage.point.p == nil {
		return false
	}

	tr := ringTranscript(ring, sig.KeyImage, message)
	c := sig.C0
	for i := 0; i < n; i++ {
		L := ScalarBaseMult(sig.S[i]).Add(ScalarMult(c, ring[i]))
		R := ScalarMult(sig.S[i], Hp(ring[i])).Add(ScalarMult(c, sig.KeyImage.Point()))
		c = ringChallenge(tr, L, R)
	}
	return c.Equal(sig.C0)
}

// ringTranscript seeds a fresh transcript bound to the ring and key
// image, shared by every challenge derivation in a single sign or
// verify pass so that each position's challenge depends on the full
// protocol context, not just the immediately preceding commitments.
func ringTranscript(ring []Point, image KeyImage, message []byte) *Transcript {
	tr := NewTranscript(domainRingSignature)
	tr.AppendMessage("message", message)
	tr.AppendPoint("key-image", image.Point())
	for _, p := range ring {
		tr.AppendPoint("ring-member", p)
	}
	return tr
}

// ringChallenge derives one position's challenge from a clone of the
// shared ring transcript, so that deriving c_{i+1} never disturbs the
// state later challenges in the same pass will fork from.
func ringChallenge(tr *Transcript, L, R Point) Scalar {
	clone := tr.Clone()
	clone.AppendPoint("L", L)
	clone.AppendPoint("R", R)
	return clone.ChallengeScalar("c")
}
