package wallet

import (
	"errors"
	"testing"

	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
)

func makeOwnedOutput(t *testing.T, ks *Keystore, amount uint64, txHashSeed byte) OwnedOutput {
	t.Helper()
	blinding := crypto.RandomScalar()
	proof, commitPoint, err := crypto.Prove(amount, blinding)
	if err != nil {
		t.Fatalf("crypto.Prove: %v", err)
	}
	r := crypto.RandomScalar()
	R, P := crypto.DeriveOneTimeKey(ks.PublicAddress(), r)
	spendScalar := crypto.DeriveSpendKey(ks.StealthAddress(), R)

	return OwnedOutput{
		Reference: ledger.OutputReference{TxHash: ledger.Hash{txHashSeed}, Index: 0},
		Output: ledger.Output{
			Commitment: crypto.CommitmentFromPoint(commitPoint),
			Proof:      proof,
			OneTimeKey: P,
			TxPublic:   R,
		},
		Amount:      amount,
		Blinding:    blinding,
		SpendScalar: spendScalar,
	}
}

func makeDecoyPool(n int, startSeed byte) []DecoyOutput {
	decoys := make([]DecoyOutput, n)
	for i := 0; i < n; i++ {
		addr := crypto.GenerateStealthAddress()
		r := crypto.RandomScalar()
		R, P := crypto.DeriveOneTimeKey(addr.Public(), r)
		proof, commitPoint, err := crypto.Prove(5, crypto.RandomScalar())
		if err != nil {
			panic(err)
		}
		decoys[i] = DecoyOutput{
			Reference: ledger.OutputReference{TxHash: ledger.Hash{startSeed + byte(i)}, Index: 1},
			Output: ledger.Output{
				Commitment: crypto.CommitmentFromPoint(commitPoint),
				Proof:      proof,
				OneTimeKey: P,
				TxPublic:   R,
			},
		}
	}
	return decoys
}

func TestBuildProducesValidTransactionWithChange(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	owned := makeOwnedOutput(t, sender, 1000, 1)
	decoys := makeDecoyPool(6, 2)

	tx, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{owned},
		Recipient:  recipient.PublicAddress(),
		Amount:     600,
		Fee:        10,
		RingSize:   4,
		Decoys:     decoys,
		Timestamp:  1000,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tx.Outputs) != 2 {
		t.Fatalf("expected a payment output and a change output, got %d outputs", len(tx.Outputs))
	}
	if err := ledger.ValidateSelfContained(tx); err != nil {
		t.Errorf("ValidateSelfContained: %v", err)
	}
}

func TestBuildProducesValidTransactionWithoutChange(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	owned := makeOwnedOutput(t, sender, 510, 1)
	decoys := makeDecoyPool(3, 2)

	tx, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{owned},
		Recipient:  recipient.PublicAddress(),
		Amount:     500,
		Fee:        10,
		RingSize:   3,
		Decoys:     decoys,
		Timestamp:  2000,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tx.Outputs) != 1 {
		t.Fatalf("expected only a payment output when the amount is exact, got %d outputs", len(tx.Outputs))
	}
	if err := ledger.ValidateSelfContained(tx); err != nil {
		t.Errorf("ValidateSelfContained: %v", err)
	}
}

func TestBuildRejectsInsufficientFunds(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	owned := makeOwnedOutput(t, sender, 10, 1)

	_, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{owned},
		Recipient:  recipient.PublicAddress(),
		Amount:     500,
		Fee:        10,
		RingSize:   3,
		Decoys:     makeDecoyPool(3, 2),
		Timestamp:  1,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestBuildRejectsTooFewDecoys(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	owned := makeOwnedOutput(t, sender, 1000, 1)

	_, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{owned},
		Recipient:  recipient.PublicAddress(),
		Amount:     100,
		Fee:        1,
		RingSize:   11,
		Decoys:     makeDecoyPool(2, 2),
		Timestamp:  1,
	})
	if !errors.Is(err, ErrTransactionBuild) {
		t.Errorf("got %v, want ErrTransactionBuild", err)
	}
}

func TestBuildRejectsZeroAmount(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	owned := makeOwnedOutput(t, sender, 1000, 1)

	_, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{owned},
		Recipient:  recipient.PublicAddress(),
		Amount:     0,
		Fee:        1,
		RingSize:   3,
		Decoys:     makeDecoyPool(3, 2),
		Timestamp:  1,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("got %v, want ErrInvalidAmount", err)
	}
}

func TestBuildSelectsMultipleInputsWhenNeeded(t *testing.T) {
	sender := GenerateKeystore()
	recipient := GenerateKeystore()
	first := makeOwnedOutput(t, sender, 100, 1)
	second := makeOwnedOutput(t, sender, 100, 2)

	tx, err := Build(BuildRequest{
		Keystore:   sender,
		Candidates: []OwnedOutput{first, second},
		Recipient:  recipient.PublicAddress(),
		Amount:     150,
		Fee:        5,
		RingSize:   3,
		Decoys:     makeDecoyPool(6, 3),
		Timestamp:  1,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tx.Inputs) != 2 {
		t.Fatalf("expected both candidates to be selected, got %d inputs", len(tx.Inputs))
	}
	if err := ledger.ValidateSelfContained(tx); err != nil {
		t.Errorf("ValidateSelfContained: %v", err)
	}
}
