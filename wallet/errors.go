package wallet

import "errors"

var (
	// ErrInsufficientFunds is returned when the candidate pool cannot
	// cover the requested amount plus fee.
	ErrInsufficientFunds = errors.New("wallet: insufficient funds")
	// ErrInvalidAmount is returned for a zero or overflowing requested
	// amount.
	ErrInvalidAmount = errors.New("wallet: invalid amount")
	// ErrTransactionBuild wraps any failure assembling a transaction
	// that is not better described by the two errors above: too few
	// decoys, a ring size below two, or an underlying crypto failure.
	ErrTransactionBuild = errors.New("wallet: transaction build failed")
)
