package crypto

import "testing"

func TestRangeProofCompleteness(t *testing.T) {
	values := []uint64{0, 1, 42, 1000000, 1<<32 - 1}
	for _, v := range values {
		r := RandomScalar()
		proof, commitment, err := Prove(v, r)
		if err != nil {
			t.Fatalf("Prove(%d): %v", v, err)
		}
		if !Verify(proof, commitment) {
			t.Errorf("Verify failed for value %d", v)
		}
	}
}

func TestRangeProofRejectsOutOfRange(t *testing.T) {
	r := RandomScalar()
	if _, _, err := Prove(1<<32, r); err == nil {
		t.Errorf("Prove(2^32) should fail: value exceeds the 32-bit bound")
	}
}

func TestRangeProofRejectsWrongCommitment(t *testing.T) {
	proof, _, err := Prove(100, RandomScalar())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	_, otherCommitment, err := Prove(100, RandomScalar())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if Verify(proof, otherCommitment) {
		t.Errorf("proof for one commitment should not verify against an unrelated commitment")
	}
}

func TestRangeProofRejectsTamperedProof(t *testing.T) {
	proof, commitment, err := Prove(7, RandomScalar())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	tampered := proof
	tampered.TauX = tampered.TauX.Add(ScalarFromUint64(1))
	if Verify(tampered, commitment) {
		t.Errorf("tampered proof should fail verification")
	}
}

func TestRangeProofVerifyBatch(t *testing.T) {
	values := []uint64{0, 5, 1000, 1<<32 - 1}
	var proofs []RangeProof
	var commitments []Point
	for _, v := range values {
		proof, commitment, err := Prove(v, RandomScalar())
		if err != nil {
			t.Fatalf("Prove(%d): %v", v, err)
		}
		proofs = append(proofs, proof)
		commitments = append(commitments, commitment)
	}

	if !VerifyBatch(proofs, commitments) {
		t.Errorf("VerifyBatch should accept a batch of valid proofs")
	}

	tampered := make([]RangeProof, len(proofs))
	copy(tampered, proofs)
	tampered[1].TauX = tampered[1].TauX.Add(ScalarFromUint64(1))
	if VerifyBatch(tampered, commitments) {
		t.Errorf("VerifyBatch should reject a batch containing a tampered proof")
	}
}
