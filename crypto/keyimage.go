package crypto

// KeyImage is the unique, deterministic tag a ring signature's true
// signer publishes: I = x*Hp(P) for one-time key P = x*B. Two
// signatures produced by the same secret x collide on I regardless of
// which ring each was produced against; this is what lets the ledger
// detect a double-spend without learning which ring member spent.
type KeyImage struct {
	point Point
}

// GenerateKeyImage computes the key image for a one-time key P with
// known private scalar x.
func GenerateKeyImage(x Scalar, P Point) KeyImage {
	return KeyImage{point: ScalarMult(x, Hp(P))}
}

// Point returns the underlying group element.
func (k KeyImage) Point() Point { return k.point }

// Bytes returns the canonical 32-byte encoding.
func (k KeyImage) Bytes() []byte { return k.point.Bytes() }

// Equal reports whether two key images are the same group element,
// i.e. whether they were produced by the same secret.
func (k KeyImage) Equal(j KeyImage) bool { return k.point.Equal(j.point) }

// DecodeKeyImage decodes a canonical 32-byte key image. Decoding
// rejects non-canonical or non-prime-order encodings, which is also
// the "I must lie in the prime-order subgroup" check ring-signature
// verification requires.
func DecodeKeyImage(b []byte) (KeyImage, error) {
	p, err := DecodePoint(b)
	if err != nil {
		return KeyImage{}, ErrInvalidKey
	}
	return KeyImage{point: p}, nil
}
