package crypto

import "testing"

func buildRing(n, secretIndex int) ([]Point, Scalar) {
	ring := make([]Point, n)
	var secret Scalar
	for i := 0; i < n; i++ {
		s := RandomScalar()
		ring[i] = ScalarBaseMult(s)
		if i == secretIndex {
			secret = s
		}
	}
	return ring, secret
}

func TestRingSignatureCompleteness(t *testing.T) {
	message := []byte("veilcoin ring signature test")
	for _, n := range []int{2, 3, 11, 32} {
		for secretIndex := 0; secretIndex < n; secretIndex += n - 1 {
			ring, secret := buildRing(n, secretIndex)
			sig, err := Sign(ring, secretIndex, secret, message)
			if err != nil {
				t.Fatalf("Sign(n=%d, idx=%d): %v", n, secretIndex, err)
			}
			if !VerifyRing(sig, ring, message) {
				t.Errorf("VerifyRing failed for n=%d, secretIndex=%d", n, secretIndex)
			}
		}
	}
}

func TestRingSignatureRejectsNonMember(t *testing.T) {
	ring, _ := buildRing(5, 0)
	outsider := RandomScalar()
	if _, err := Sign(ring, 2, outsider, []byte("msg")); err == nil {
		t.Errorf("Sign should reject a secret that does not match the claimed ring position")
	}
}

func TestRingSignatureLinkability(t *testing.T) {
	ring, secret := buildRing(4, 1)
	sig1, err := Sign(ring, 1, secret, []byte("first message"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig2, err := Sign(ring, 1, secret, []byte("second message"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !sig1.KeyImage.Equal(sig2.KeyImage) {
		t.Errorf("signatures from the same secret should share a key image regardless of message")
	}
}

func TestRingSignatureDistinctSignersDistinctImages(t *testing.T) {
	ringA, secretA := buildRing(4, 0)
	ringB, secretB := buildRing(4, 0)
	sigA, err := Sign(ringA, 0, secretA, []byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sigB, err := Sign(ringB, 0, secretB, []byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sigA.KeyImage.Equal(sigB.KeyImage) {
		t.Errorf("distinct secrets should not share a key image")
	}
}

func TestRingSignatureRejectsTamperedMessage(t *testing.T) {
	ring, secret := buildRing(6, 3)
	sig, err := Sign(ring, 3, secret, []byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if VerifyRing(sig, ring, []byte("tampered")) {
		t.Errorf("VerifyRing should fail when the message is changed")
	}
}

func TestRingSignatureRejectsTamperedRing(t *testing.T) {
	ring, secret := buildRing(6, 3)
	message := []byte("fixed message")
	sig, err := Sign(ring, 3, secret, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tamperedRing := make([]Point, len(ring))
	copy(tamperedRing, ring)
	tamperedRing[0] = ScalarBaseMult(RandomScalar())
	if VerifyRing(sig, tamperedRing, message) {
		t.Errorf("VerifyRing should fail when a ring member is swapped")
	}
}

func TestRingSignatureRejectsTamperedResponse(t *testing.T) {
	ring, secret := buildRing(5, 2)
	message := []byte("fixed message")
	sig, err := Sign(ring, 2, secret, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig.S[0] = sig.S[0].Add(ScalarFromUint64(1))
	if VerifyRing(sig, ring, message) {
		t.Errorf("VerifyRing should fail when a response scalar is tampered")
	}
}

func TestRingSignatureRejectsWrongLength(t *testing.T) {
	ring, secret := buildRing(5, 0)
	sig, err := Sign(ring, 0, secret, []byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig.S = sig.S[:len(sig.S)-1]
	if VerifyRing(sig, ring, []byte("msg")) {
		t.Errorf("VerifyRing should reject a response vector with the wrong length")
	}
}
