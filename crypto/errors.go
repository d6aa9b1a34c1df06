package crypto

import "errors"

// Exported error kinds. Decode and signing failures in this package
// surface as one of these rather than a panic; Verify, VerifyBatch and
// VerifyRing report a failed check as false.
var (
	ErrInvalidKey             = errors.New("crypto: invalid key")
	ErrSignatureVerification  = errors.New("crypto: signature verification failed")
	ErrRangeProofVerification = errors.New("crypto: range proof verification failed")
	ErrInvalidAmount          = errors.New("crypto: invalid amount")
	ErrInvalidCommitment      = errors.New("crypto: invalid commitment")
)
