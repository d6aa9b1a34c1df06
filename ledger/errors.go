package ledger

import "errors"

var (
	// ErrUnknownOutputReference is returned when a ring member does not
	// resolve to a known output on the ledger.
	ErrUnknownOutputReference = errors.New("ledger: unknown output reference")
	// ErrKeyImageSpent is returned when an input's key image has already
	// been published by a prior transaction.
	ErrKeyImageSpent = errors.New("ledger: key image already spent")
	// ErrDuplicateKeyImage is returned when a transaction's own inputs
	// repeat a key image.
	ErrDuplicateKeyImage = errors.New("ledger: duplicate key image in transaction")
	// ErrInvalidRangeProof is returned when an output's range proof does
	// not verify against its commitment.
	ErrInvalidRangeProof = errors.New("ledger: invalid range proof")
	// ErrInvalidRingSignature is returned when an input's ring signature
	// does not verify.
	ErrInvalidRingSignature = errors.New("ledger: invalid ring signature")
	// ErrUnbalancedTransaction is returned when inputs, outputs and fee
	// do not satisfy the balance invariant.
	ErrUnbalancedTransaction = errors.New("ledger: transaction does not balance")
	// ErrEmptyRing is returned when an input references no ring members.
	ErrEmptyRing = errors.New("ledger: empty ring")
)
