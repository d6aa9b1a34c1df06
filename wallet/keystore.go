// Package wallet implements the local-spending side of the core:
// a keystore over a stealth address, a stateless transaction scanner,
// a balanced transaction builder, and a reader-writer balance tracker.
package wallet

import (
	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
)

// Keystore holds the secret material for a single stealth address. It
// satisfies the Keystore collaborator interface the builder and
// scanner consume.
type Keystore struct {
	addr crypto.StealthAddress
}

// NewKeystore wraps an already-generated stealth address.
func NewKeystore(addr crypto.StealthAddress) *Keystore {
	return &Keystore{addr: addr}
}

// GenerateKeystore samples a fresh stealth address and wraps it.
func GenerateKeystore() *Keystore {
	return &Keystore{addr: crypto.GenerateStealthAddress()}
}

// StealthAddress returns the full keypair, including secrets. Callers
// must not log, serialize or display it.
func (k *Keystore) StealthAddress() crypto.StealthAddress { return k.addr }

// PublicAddress returns the publishable half: safe to hand to a
// sender or print.
func (k *Keystore) PublicAddress() crypto.PublicAddress { return k.addr.Public() }

// SpendKeyFor returns the private spend scalar for a one-time key P
// recognized via R, per crypto.DeriveSpendKey.
func (k *Keystore) SpendKeyFor(P crypto.Point, R crypto.Point) crypto.Scalar {
	return crypto.DeriveSpendKey(k.addr, R)
}

// OwnedOutput is a scanned Output paired with everything the keystore
// needs to later spend it: the reference it was found at, its amount,
// its private spend scalar, and the blinding factor of its commitment.
// Build reads Amount and SpendScalar only: each input's pseudo
// commitment uses a fresh blinding, not Blinding. The blinding factor is not
// recoverable from the ledger alone — it must be carried alongside the
// output from whoever constructed it (the sender, via an
// out-of-band or encrypted channel outside this package's scope).
type OwnedOutput struct {
	Reference  ledger.OutputReference
	Output     ledger.Output
	Amount     uint64
	Blinding   crypto.Scalar
	SpendScalar crypto.Scalar
}
