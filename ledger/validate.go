package ledger

import "github.com/veilcoin/core/crypto"

// Ledger is the external collaborator a Transaction is checked
// against for the parts of its invariant that are not self-contained:
// resolving ring members to the outputs they claim to reference, and
// checking whether a key image has already been spent.
type Ledger interface {
	Resolve(ref OutputReference) (Output, bool)
	ContainsKeyImage(image crypto.KeyImage) bool
}

// ValidateSelfContained checks a transaction's invariants that do not
// require consulting external ledger state: every output's range proof
// verifies, key images are pairwise distinct within the transaction,
// and the homomorphic balance identity holds over the inputs' pseudo
// commitments. Resolving ring references against known outputs, the
// spent-key-image set, and ring-signature verification (which needs
// the resolved one-time keys) are the caller's job via
// ValidateAgainstLedger.
func ValidateSelfContained(tx Transaction) error {
	for _, out := range tx.Outputs {
		if !out.Verify() {
			return ErrInvalidRangeProof
		}
	}

	seen := make(map[crypto.KeyImage]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		for prior := range seen {
			if prior.Equal(in.KeyImage) {
				return ErrDuplicateKeyImage
			}
		}
		seen[in.KeyImage] = struct{}{}
	}

	if !ValidateBalance(tx) {
		return ErrUnbalancedTransaction
	}
	return nil
}

// ValidateAgainstLedger resolves every ring reference and rejects
// already-spent key images, verifying each input's ring signature
// against the resolved one-time keys. Does not repeat the
// self-contained checks; callers should call both.
func ValidateAgainstLedger(tx Transaction, l Ledger) error {
	msg := tx.SigningBytes()
	for _, in := range tx.Inputs {
		if len(in.Ring) == 0 {
			return ErrEmptyRing
		}
		ringKeys := make([]crypto.Point, len(in.Ring))
		for i, ref := range in.Ring {
			out, ok := l.Resolve(ref)
			if !ok {
				return ErrUnknownOutputReference
			}
			ringKeys[i] = out.OneTimeKey
		}
		if l.ContainsKeyImage(in.KeyImage) {
			return ErrKeyImageSpent
		}
		if !crypto.VerifyRing(in.Signature, ringKeys, msg) {
			return ErrInvalidRingSignature
		}
	}
	return nil
}

// ValidateBalance checks Σ C_in − Σ C_out − fee·B = 0 using each
// input's pseudo-output commitment, never the real spent output's
// public commitment.
func ValidateBalance(tx Transaction) bool {
	lhs := crypto.Commit(0, crypto.ZeroScalar())
	for _, in := range tx.Inputs {
		lhs = lhs.Add(in.PseudoCommitment)
	}
	rhs := crypto.Commit(0, crypto.ZeroScalar())
	for _, out := range tx.Outputs {
		rhs = rhs.Add(out.Commitment)
	}
	rhs = rhs.Add(crypto.Commit(tx.Fee, crypto.ZeroScalar()))
	return lhs.Equal(rhs)
}
