package wallet

import (
	"sync"

	"github.com/veilcoin/core/ledger"
)

// Balance tracks the set of outputs a wallet currently recognizes as
// its own and unspent. Many goroutines may read the balance
// concurrently; block processing and transaction creation serialize as
// the single writer, per sync.RWMutex's usual many-readers-or-one-writer
// discipline.
type Balance struct {
	mu      sync.RWMutex
	unspent map[ledger.OutputReference]OwnedOutput
}

// NewBalance returns an empty balance tracker.
func NewBalance() *Balance {
	return &Balance{unspent: make(map[ledger.OutputReference]OwnedOutput)}
}

// Add records a newly-recognized, unspent output. It takes the write
// lock, so concurrent calls serialize.
func (b *Balance) Add(owned OwnedOutput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unspent[owned.Reference] = owned
}

// Remove drops an output once its key image is observed spent on the
// ledger. It takes the write lock, so concurrent calls serialize.
func (b *Balance) Remove(ref ledger.OutputReference) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.unspent, ref)
}

// Total returns the sum of every unspent output's amount. On return,
// it equals the sum of amounts over every (reference, output) pair the
// writer has added and not yet removed — the invariant the writer must
// preserve across Add/Remove calls.
func (b *Balance) Total() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var total uint64
	for _, o := range b.unspent {
		total += o.Amount
	}
	return total
}

// Spendable returns a snapshot slice of every unspent output, suitable
// as a BuildRequest's Candidates. The slice is a copy; mutating it does
// not affect the tracker.
func (b *Balance) Spendable() []OwnedOutput {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]OwnedOutput, 0, len(b.unspent))
	for _, o := range b.unspent {
		out = append(out, o)
	}
	return out
}

// Has reports whether ref is currently tracked as unspent.
func (b *Balance) Has(ref ledger.OutputReference) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.unspent[ref]
	return ok
}
