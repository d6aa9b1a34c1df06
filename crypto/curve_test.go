package crypto

import "testing"

func TestScalarRoundTrip(t *testing.T) {
	s := RandomScalar()
	decoded, err := DecodeScalar(s.Bytes())
	if err != nil {
		t.Fatalf("DecodeScalar: %v", err)
	}
	if !decoded.Equal(s) {
		t.Errorf("round-tripped scalar does not match original")
	}
}

func TestPointRoundTrip(t *testing.T) {
	p := ScalarBaseMult(RandomScalar())
	decoded, err := DecodePoint(p.Bytes())
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if !decoded.Equal(p) {
		t.Errorf("round-tripped point does not match original")
	}
}

func TestDecodePointRejectsWrongLength(t *testing.T) {
	if _, err := DecodePoint(make([]byte, 31)); err == nil {
		t.Errorf("DecodePoint with short input should fail")
	}
	if _, err := DecodePoint(make([]byte, 33)); err == nil {
		t.Errorf("DecodePoint with long input should fail")
	}
}

func TestScalarArithmetic(t *testing.T) {
	a := ScalarFromUint64(5)
	b := ScalarFromUint64(3)

	if got := a.Add(b); !got.Equal(ScalarFromUint64(8)) {
		t.Errorf("5 + 3 != 8")
	}
	if got := a.Sub(b); !got.Equal(ScalarFromUint64(2)) {
		t.Errorf("5 - 3 != 2")
	}
	if got := a.Mul(b); !got.Equal(ScalarFromUint64(15)) {
		t.Errorf("5 * 3 != 15")
	}
	if inv := a.Inv(); !a.Mul(inv).Equal(ScalarFromUint64(1)) {
		t.Errorf("a * a^-1 != 1")
	}
	if !a.Add(a.Neg()).IsZero() {
		t.Errorf("a + (-a) != 0")
	}
}

func TestHAndBAreIndependent(t *testing.T) {
	if B.Equal(H) {
		t.Fatalf("H must not equal B")
	}
}

func TestHsIsDeterministic(t *testing.T) {
	msg := []byte("veilcoin test message")
	a := Hs(msg)
	b := Hs(msg)
	if !a.Equal(b) {
		t.Errorf("Hs should be deterministic for the same input")
	}
	if a.Equal(Hs([]byte("different message"))) {
		t.Errorf("Hs should differ for different inputs")
	}
}

func TestHpIsDeterministicAndDistinctAcrossPoints(t *testing.T) {
	p := ScalarBaseMult(RandomScalar())
	a := Hp(p)
	b := Hp(p)
	if !a.Equal(b) {
		t.Errorf("Hp should be deterministic for the same point")
	}
	q := ScalarBaseMult(RandomScalar())
	if a.Equal(Hp(q)) {
		t.Errorf("Hp of two distinct points collided")
	}
}

func TestMultiScalarMultMatchesSequentialSum(t *testing.T) {
	scalars := []Scalar{ScalarFromUint64(2), ScalarFromUint64(3), ScalarFromUint64(5)}
	points := []Point{ScalarBaseMult(RandomScalar()), ScalarBaseMult(RandomScalar()), ScalarBaseMult(RandomScalar())}

	got := MultiScalarMult(scalars, points)

	want := ScalarMult(scalars[0], points[0])
	for i := 1; i < len(scalars); i++ {
		want = want.Add(ScalarMult(scalars[i], points[i]))
	}

	if !got.Equal(want) {
		t.Errorf("MultiScalarMult result does not match sequential accumulation")
	}
}
