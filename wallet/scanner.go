package wallet

import (
	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
)

// Scan tests every output of tx against addr and returns the
// references and outputs recognized as belonging to it. Recognition
// alone does not reveal the amount a matched output commits to; the
// caller still needs the blinding factor (obtained out-of-band, e.g.
// from an encrypted payment memo) to interpret its commitment.
//
// Scan is stateless and side-effect-free: it never mutates tx, addr,
// or any package-level state, and may be called concurrently from
// multiple goroutines over the same inputs.
func Scan(tx ledger.Transaction, addr crypto.StealthAddress) []Match {
	var matches []Match
	for i, out := range tx.Outputs {
		if crypto.Scan(addr, out.TxPublic, out.OneTimeKey) {
			matches = append(matches, Match{
				Reference: ledger.OutputReference{TxHash: tx.Hash(), Index: uint32(i)},
				Output:    out,
			})
		}
	}
	return matches
}

// Match is one output a scan recognized as addressed to the scanning
// stealth address.
type Match struct {
	Reference ledger.OutputReference
	Output    ledger.Output
}
