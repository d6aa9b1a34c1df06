package ledger

import (
	"sync"

	"github.com/veilcoin/core/crypto"
)

// State is the in-memory UTXO set and spent-key-image index. It
// implements Ledger and is safe for concurrent use: many readers
// (output resolution, key-image lookups) and one writer at a time
// (block application).
type State struct {
	mu sync.RWMutex

	height  uint64
	outputs map[Hash]map[uint32]Output
	spent   []crypto.KeyImage
}

// NewState returns an empty ledger state at height 0.
func NewState() *State {
	return &State{outputs: make(map[Hash]map[uint32]Output)}
}

// Resolve implements Ledger.
func (s *State) Resolve(ref OutputReference) (Output, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byIndex, ok := s.outputs[ref.TxHash]
	if !ok {
		return Output{}, false
	}
	out, ok := byIndex[ref.Index]
	return out, ok
}

// ContainsKeyImage implements Ledger.
func (s *State) ContainsKeyImage(image crypto.KeyImage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsKeyImageLocked(image)
}

func (s *State) containsKeyImageLocked(image crypto.KeyImage) bool {
	for _, ki := range s.spent {
		if ki.Equal(image) {
			return true
		}
	}
	return false
}

// Height returns the last applied block height.
func (s *State) Height() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

// GetAllOutputs returns every output currently on the ledger, keyed by
// the reference it is known under. Callers needing only unspent outputs must cross-reference
// ContainsKeyImage themselves since this state does not track, per
// output, which key image would spend it (that link is known only to
// the owner).
func (s *State) GetAllOutputs() map[OutputReference]Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make(map[OutputReference]Output)
	for txHash, byIndex := range s.outputs {
		for idx, out := range byIndex {
			all[OutputReference{TxHash: txHash, Index: idx}] = out
		}
	}
	return all
}

// ApplyBlock validates and applies every transaction in a block as one
// atomic step: the whole block is checked against the current state
// before any output is added or any key image recorded, so a rejected
// block never partially mutates the ledger. Within an accepted block,
// outputs become visible first, then key images are recorded as
// spent, then the height advances.
func (s *State) ApplyBlock(height uint64, txs []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateBlockLocked(txs); err != nil {
		return err
	}

	for _, tx := range txs {
		txHash := tx.Hash()
		byIndex := make(map[uint32]Output, len(tx.Outputs))
		for i, out := range tx.Outputs {
			byIndex[uint32(i)] = out
		}
		s.outputs[txHash] = byIndex
	}
	for _, tx := range txs {
		for _, in := range tx.Inputs {
			s.spent = append(s.spent, in.KeyImage)
		}
	}
	s.height = height
	return nil
}

// validateBlockLocked re-validates every transaction against the
// state as it stands before this block, including key images
// introduced earlier in the same block, without mutating anything.
func (s *State) validateBlockLocked(txs []Transaction) error {
	introduced := make([]crypto.KeyImage, 0)
	for _, tx := range txs {
		if err := ValidateSelfContained(tx); err != nil {
			return err
		}
		for _, in := range tx.Inputs {
			if s.containsKeyImageLocked(in.KeyImage) {
				return ErrKeyImageSpent
			}
			for _, ki := range introduced {
				if ki.Equal(in.KeyImage) {
					return ErrKeyImageSpent
				}
			}
		}
		if err := ValidateAgainstLedger(tx, lockedState{s}); err != nil {
			return err
		}
		for _, in := range tx.Inputs {
			introduced = append(introduced, in.KeyImage)
		}
	}
	return nil
}

// lockedState gives ValidateAgainstLedger read access to a State whose
// lock the caller already holds, so its lookups do not lock again.
type lockedState struct{ s *State }

func (l lockedState) Resolve(ref OutputReference) (Output, bool) {
	out, ok := l.s.outputs[ref.TxHash][ref.Index]
	return out, ok
}

func (l lockedState) ContainsKeyImage(image crypto.KeyImage) bool {
	return l.s.containsKeyImageLocked(image)
}
