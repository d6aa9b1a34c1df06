// Package crypto implements the confidential-transaction primitives:
// Pedersen commitments, range proofs, stealth addresses and linkable
// ring signatures, all over the ristretto255 prime-order group.
package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"
)

// EncodedSize is the canonical compressed size of both a Scalar and a
// Point, in bytes.
const EncodedSize = 32

// Scalar is an element of the ristretto255 scalar field, reduced mod
// the group order ℓ.
type Scalar struct {
	s *ristretto255.Scalar
}

// Point is a ristretto255 group element.
type Point struct {
	p *ristretto255.Element
}

// B is the group's canonical base point.
var B = Point{p: ristretto255.NewGeneratorElement()}

// H is an independent generator with no known discrete log relative to
// B, derived once by hashing a fixed domain tag to a uniform point.
var H = derivePoint("veilcoin/crypto/H")

func derivePoint(tag string) Point {
	h := sha512.Sum512([]byte(tag))
	e := ristretto255.NewIdentityElement()
	if _, err := e.SetUniformBytes(h[:]); err != nil {
		panic(fmt.Sprintf("crypto: deriving generator %q: %v", tag, err))
	}
	return Point{p: e}
}

// RandomScalar draws a uniformly random scalar from a cryptographically
// secure source. It panics if the entropy source fails, per the
// fail-loudly contract for randomness in this package.
func RandomScalar() Scalar {
	var buf [64]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic("crypto: entropy source failed: " + err.Error())
	}
	s := ristretto255.NewScalar()
	if _, err := s.SetUniformBytes(buf[:]); err != nil {
		panic("crypto: reducing random bytes: " + err.Error())
	}
	return Scalar{s: s}
}

// ScalarFromUint64 reduces a u64 value into a scalar.
func ScalarFromUint64(v uint64) Scalar {
	var buf [64]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	s := ristretto255.NewScalar()
	if _, err := s.SetUniformBytes(buf[:]); err != nil {
		panic("crypto: reducing uint64: " + err.Error())
	}
	return Scalar{s: s}
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar { return Scalar{s: ristretto255.NewScalar()} }

// Hs hashes an arbitrary byte string to a scalar (the transcript's
// non-interactive challenge function, also used standalone by the
// stealth-address scheme).
func Hs(msg ...[]byte) Scalar {
	h := sha512.New()
	for _, m := range msg {
		h.Write(m)
	}
	s := ristretto255.NewScalar()
	if _, err := s.SetUniformBytes(h.Sum(nil)); err != nil {
		panic("crypto: Hs reduction: " + err.Error())
	}
	return Scalar{s: s}
}

// Hp hashes a point to another point in the group, with no known
// discrete log relative to the input. Used only to build key images:
// I = x * Hp(P).
func Hp(p Point) Point {
	h := sha512.New()
	h.Write([]byte("veilcoin/crypto/Hp"))
	h.Write(p.Bytes())
	e := ristretto255.NewIdentityElement()
	if _, err := e.SetUniformBytes(h.Sum(nil)); err != nil {
		panic("crypto: Hp reduction: " + err.Error())
	}
	return Point{p: e}
}

// DecodeScalar decodes 32 canonical little-endian bytes into a Scalar.
func DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != EncodedSize {
		return Scalar{}, ErrInvalidKey
	}
	s := ristretto255.NewScalar()
	if _, err := s.SetCanonicalBytes(b); err != nil {
		return Scalar{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return Scalar{s: s}, nil
}

// Bytes returns the canonical 32-byte little-endian encoding.
func (s Scalar) Bytes() []byte { return s.s.Bytes() }

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool { return s.s.Equal(ristretto255.NewScalar()) == 1 }

// Equal reports constant-time scalar equality.
func (s Scalar) Equal(t Scalar) bool { return s.s.Equal(t.s) == 1 }

// Add returns s + t mod ℓ.
func (s Scalar) Add(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Add(s.s, t.s)}
}

// Sub returns s - t mod ℓ.
func (s Scalar) Sub(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Subtract(s.s, t.s)}
}

// Mul returns s * t mod ℓ.
func (s Scalar) Mul(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Multiply(s.s, t.s)}
}

// Neg returns -s mod ℓ.
func (s Scalar) Neg() Scalar {
	return Scalar{s: ristretto255.NewScalar().Negate(s.s)}
}

// Inv returns the multiplicative inverse of s. s must be non-zero.
func (s Scalar) Inv() Scalar {
	return Scalar{s: ristretto255.NewScalar().Invert(s.s)}
}

// DecodePoint decodes 32 canonical compressed bytes into a Point.
// Decoding fails (ErrInvalidKey) on non-canonical encodings, which in
// ristretto255 also excludes all small-subgroup and cofactor-related
// malleability the prime-order group is designed to remove.
func DecodePoint(b []byte) (Point, error) {
	if len(b) != EncodedSize {
		return Point{}, ErrInvalidKey
	}
	e := ristretto255.NewIdentityElement()
	if _, err := e.SetCanonicalBytes(b); err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return Point{p: e}, nil
}

// Bytes returns the canonical 32-byte compressed encoding.
func (p Point) Bytes() []byte { return p.p.Bytes() }

// Equal reports constant-time point equality.
func (p Point) Equal(q Point) bool { return p.p.Equal(q.p) == 1 }

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p: ristretto255.NewIdentityElement().Add(p.p, q.p)}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p: ristretto255.NewIdentityElement().Subtract(p.p, q.p)}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{p: ristretto255.NewIdentityElement().Negate(p.p)}
}

// ScalarBaseMult returns s * B.
func ScalarBaseMult(s Scalar) Point {
	return Point{p: ristretto255.NewIdentityElement().ScalarBaseMult(s.s)}
}

// ScalarMult returns s * p.
func ScalarMult(s Scalar, p Point) Point {
	return Point{p: ristretto255.NewIdentityElement().ScalarMult(s.s, p.p)}
}

// MultiScalarMult returns Σ scalars[i] * points[i]. Panics if the
// slices differ in length.
func MultiScalarMult(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("crypto: MultiScalarMult: mismatched slice lengths")
	}
	ss := make([]*ristretto255.Scalar, len(scalars))
	pp := make([]*ristretto255.Element, len(points))
	for i := range scalars {
		ss[i] = scalars[i].s
		pp[i] = points[i].p
	}
	return Point{p: ristretto255.NewIdentityElement().VarTimeMultiScalarMult(ss, pp)}
}
