package crypto

// Commitment is a Pedersen commitment C = v*B + r*H to a u64 amount
// v under blinding factor r. It is additively homomorphic: committing
// to v1 and v2 and adding the two commitments yields a commitment to
// v1+v2 under the sum of the blinding factors, with no need to reveal
// either value.
type Commitment struct {
	point Point
}

// Commit builds a commitment to v under the given blinding factor.
func Commit(v uint64, r Scalar) Commitment {
	return Commitment{point: ScalarBaseMult(ScalarFromUint64(v)).Add(ScalarMult(r, H))}
}

// CommitRandom builds a commitment to v under a freshly sampled
// blinding factor, returning both.
func CommitRandom(v uint64) (Commitment, Scalar) {
	r := RandomScalar()
	return Commit(v, r), r
}

// Open reports whether (v, r) is a valid opening of c.
func (c Commitment) Open(v uint64, r Scalar) bool {
	return c.point.Equal(ScalarBaseMult(ScalarFromUint64(v)).Add(ScalarMult(r, H)))
}

// Add returns the commitment to the sum of the two committed values,
// under the sum of their blinding factors.
func (c Commitment) Add(d Commitment) Commitment {
	return Commitment{point: c.point.Add(d.point)}
}

// Sub returns the commitment to the difference of the two committed
// values, under the difference of their blinding factors.
func (c Commitment) Sub(d Commitment) Commitment {
	return Commitment{point: c.point.Sub(d.point)}
}

// Neg returns the commitment to the negation of the committed value.
func (c Commitment) Neg() Commitment {
	return Commitment{point: c.point.Neg()}
}

// Equal reports whether two commitments encode the same point.
func (c Commitment) Equal(d Commitment) bool { return c.point.Equal(d.point) }

// Point returns the underlying group element.
func (c Commitment) Point() Point { return c.point }

// Bytes returns the canonical 32-byte encoding of the commitment.
func (c Commitment) Bytes() []byte { return c.point.Bytes() }

// DecodeCommitment decodes a canonical 32-byte commitment.
func DecodeCommitment(b []byte) (Commitment, error) {
	p, err := DecodePoint(b)
	if err != nil {
		return Commitment{}, ErrInvalidCommitment
	}
	return Commitment{point: p}, nil
}

// CommitmentFromPoint wraps an already-decoded point as a commitment,
// for callers (such as the range-proof verifier) that work with raw
// points throughout.
func CommitmentFromPoint(p Point) Commitment { return Commitment{point: p} }

// SumCommitments folds a list of commitments into their homomorphic
// sum. Returns the identity commitment (a commitment to 0 under
// blinding 0) for an empty list.
func SumCommitments(cs []Commitment) Commitment {
	sum := Commit(0, ZeroScalar())
	for _, c := range cs {
		sum = sum.Add(c)
	}
	return sum
}
