package crypto

import "testing"

func TestCommitOpen(t *testing.T) {
	cases := []uint64{0, 1, 42, 1<<32 - 1}
	for _, v := range cases {
		r := RandomScalar()
		c := Commit(v, r)
		if !c.Open(v, r) {
			t.Errorf("Commit(%d).Open(%d, r) = false, want true", v, v)
		}
		if c.Open(v+1, r) {
			t.Errorf("Commit(%d).Open(%d, r) = true, want false", v, v+1)
		}
		if c.Open(v, RandomScalar()) {
			t.Errorf("Commit(%d).Open with wrong blinding = true, want false", v)
		}
	}
}

func TestCommitBinding(t *testing.T) {
	r := RandomScalar()
	a := Commit(10, r)
	b := Commit(10, r)
	if !a.Equal(b) {
		t.Errorf("two commitments to the same (value, blinding) pair should be equal")
	}

	c := Commit(11, r)
	if a.Equal(c) {
		t.Errorf("commitments to different values under the same blinding should differ")
	}
}

func TestCommitHomomorphic(t *testing.T) {
	v1, v2 := uint64(7), uint64(35)
	r1, r2 := RandomScalar(), RandomScalar()

	c1 := Commit(v1, r1)
	c2 := Commit(v2, r2)
	sum := c1.Add(c2)

	if !sum.Open(v1+v2, r1.Add(r2)) {
		t.Errorf("Commit(v1,r1) + Commit(v2,r2) should open to (v1+v2, r1+r2)")
	}
}

func TestCommitmentRoundTrip(t *testing.T) {
	r := RandomScalar()
	c := Commit(123, r)
	decoded, err := DecodeCommitment(c.Bytes())
	if err != nil {
		t.Fatalf("DecodeCommitment: %v", err)
	}
	if !decoded.Equal(c) {
		t.Errorf("round-tripped commitment does not match original")
	}
}

func TestSumCommitments(t *testing.T) {
	var cs []Commitment
	var total uint64
	totalR := ZeroScalar()
	for _, v := range []uint64{1, 2, 3, 4} {
		r := RandomScalar()
		cs = append(cs, Commit(v, r))
		total += v
		totalR = totalR.Add(r)
	}
	sum := SumCommitments(cs)
	if !sum.Open(total, totalR) {
		t.Errorf("SumCommitments should open to the sum of values and blindings")
	}
}
