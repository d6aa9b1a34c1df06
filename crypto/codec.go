package crypto

import "github.com/veilcoin/core/wire"

// EncodeScalar appends s's canonical 32-byte encoding to e.
func EncodeScalar(e *wire.Encoder, s Scalar) { e.PutFixed(s.Bytes()) }

// DecodeScalarField reads a 32-byte scalar field from d.
func DecodeScalarField(d *wire.Decoder) (Scalar, error) {
	b, err := d.Fixed(EncodedSize)
	if err != nil {
		return Scalar{}, err
	}
	return DecodeScalar(b)
}

// EncodePoint appends p's canonical 32-byte encoding to e.
func EncodePoint(e *wire.Encoder, p Point) { e.PutFixed(p.Bytes()) }

// DecodePointField reads a 32-byte point field from d.
func DecodePointField(d *wire.Decoder) (Point, error) {
	b, err := d.Fixed(EncodedSize)
	if err != nil {
		return Point{}, err
	}
	return DecodePoint(b)
}

// EncodeCommitment appends c's canonical encoding to e.
func EncodeCommitment(e *wire.Encoder, c Commitment) { e.PutFixed(c.Bytes()) }

// DecodeCommitmentField reads a commitment from d.
func DecodeCommitmentField(d *wire.Decoder) (Commitment, error) {
	b, err := d.Fixed(EncodedSize)
	if err != nil {
		return Commitment{}, err
	}
	return DecodeCommitment(b)
}

// EncodeKeyImage appends k's canonical encoding to e.
func EncodeKeyImage(e *wire.Encoder, k KeyImage) { e.PutFixed(k.Bytes()) }

// DecodeKeyImageField reads a key image from d.
func DecodeKeyImageField(d *wire.Decoder) (KeyImage, error) {
	b, err := d.Fixed(EncodedSize)
	if err != nil {
		return KeyImage{}, err
	}
	return DecodeKeyImage(b)
}

// EncodeRangeProof appends a length-prefixed encoding of the proof:
// the four commitment points, the three scalars, the inner-product
// L/R vectors and the two closing scalars.
func EncodeRangeProof(e *wire.Encoder, p RangeProof) {
	EncodePoint(e, p.A)
	EncodePoint(e, p.S)
	EncodePoint(e, p.T1)
	EncodePoint(e, p.T2)
	EncodeScalar(e, p.TauX)
	EncodeScalar(e, p.Mu)
	EncodeScalar(e, p.THat)
	e.PutUint32(uint32(len(p.ipa.L)))
	for i := range p.ipa.L {
		EncodePoint(e, p.ipa.L[i])
		EncodePoint(e, p.ipa.R[i])
	}
	EncodeScalar(e, p.ipa.A)
	EncodeScalar(e, p.ipa.B)
}

// DecodeRangeProofField reads a range proof from d.
func DecodeRangeProofField(d *wire.Decoder) (RangeProof, error) {
	var p RangeProof
	var err error
	if p.A, err = DecodePointField(d); err != nil {
		return RangeProof{}, err
	}
	if p.S, err = DecodePointField(d); err != nil {
		return RangeProof{}, err
	}
	if p.T1, err = DecodePointField(d); err != nil {
		return RangeProof{}, err
	}
	if p.T2, err = DecodePointField(d); err != nil {
		return RangeProof{}, err
	}
	if p.TauX, err = DecodeScalarField(d); err != nil {
		return RangeProof{}, err
	}
	if p.Mu, err = DecodeScalarField(d); err != nil {
		return RangeProof{}, err
	}
	if p.THat, err = DecodeScalarField(d); err != nil {
		return RangeProof{}, err
	}
	rounds, err := d.Uint32()
	if err != nil {
		return RangeProof{}, err
	}
	p.ipa.L = make([]Point, rounds)
	p.ipa.R = make([]Point, rounds)
	for i := 0; i < int(rounds); i++ {
		if p.ipa.L[i], err = DecodePointField(d); err != nil {
			return RangeProof{}, err
		}
		if p.ipa.R[i], err = DecodePointField(d); err != nil {
			return RangeProof{}, err
		}
	}
	if p.ipa.A, err = DecodeScalarField(d); err != nil {
		return RangeProof{}, err
	}
	if p.ipa.B, err = DecodeScalarField(d); err != nil {
		return RangeProof{}, err
	}
	return p, nil
}

// EncodeRingSignature appends a length-prefixed encoding of the
// signature: the key image, the closing challenge c0, and the
// per-position response vector.
func EncodeRingSignature(e *wire.Encoder, sig RingSignature) {
	EncodeKeyImage(e, sig.KeyImage)
	EncodeScalar(e, sig.C0)
	e.PutUint32(uint32(len(sig.S)))
	for _, s := range sig.S {
		EncodeScalar(e, s)
	}
}

// DecodeRingSignatureField reads a ring signature from d.
func DecodeRingSignatureField(d *wire.Decoder) (RingSignature, error) {
	var sig RingSignature
	var err error
	if sig.KeyImage, err = DecodeKeyImageField(d); err != nil {
		return RingSignature{}, err
	}
	if sig.C0, err = DecodeScalarField(d); err != nil {
		return RingSignature{}, err
	}
	n, err := d.Uint32()
	if err != nil {
		return RingSignature{}, err
	}
	sig.S = make([]Scalar, n)
	for i := range sig.S {
		if sig.S[i], err = DecodeScalarField(d); err != nil {
			return RingSignature{}, err
		}
	}
	return sig, nil
}

// EncodePublicAddress appends a's view and spend public points.
func EncodePublicAddress(e *wire.Encoder, a PublicAddress) {
	EncodePoint(e, a.View)
	EncodePoint(e, a.Spend)
}

// DecodePublicAddressField reads a public address from d.
func DecodePublicAddressField(d *wire.Decoder) (PublicAddress, error) {
	view, err := DecodePointField(d)
	if err != nil {
		return PublicAddress{}, err
	}
	spend, err := DecodePointField(d)
	if err != nil {
		return PublicAddress{}, err
	}
	return PublicAddress{View: view, Spend: spend}, nil
}
