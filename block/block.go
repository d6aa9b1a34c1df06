// Package block defines the PoW-shaped block header and body, and the
// Merkle-root construction binding a block's transaction list.
package block

import (
	"crypto/sha256"

	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/wire"
)

// Header is a block's fixed-size metadata. Its hash never depends on
// the transaction bodies directly, only through MerkleRoot — editing a
// transaction's contents changes the root, which changes the header
// hash, but the header encoding itself never grows with the body.
type Header struct {
	Version    uint32
	PrevHash   ledger.Hash
	MerkleRoot ledger.Hash
	Timestamp  uint64
	Height     uint64
	Difficulty uint64
	Nonce      uint64
}

// Encode appends h's canonical encoding to e.
func (h Header) Encode(e *wire.Encoder) {
	e.PutUint32(h.Version)
	e.PutFixed(h.PrevHash[:])
	e.PutFixed(h.MerkleRoot[:])
	e.PutUint64(h.Timestamp)
	e.PutUint64(h.Height)
	e.PutUint64(h.Difficulty)
	e.PutUint64(h.Nonce)
}

// DecodeHeader reads a Header from d.
func DecodeHeader(d *wire.Decoder) (Header, error) {
	var h Header
	var err error
	if h.Version, err = d.Uint32(); err != nil {
		return Header{}, err
	}
	prev, err := d.Fixed(32)
	if err != nil {
		return Header{}, err
	}
	copy(h.PrevHash[:], prev)
	root, err := d.Fixed(32)
	if err != nil {
		return Header{}, err
	}
	copy(h.MerkleRoot[:], root)
	if h.Timestamp, err = d.Uint64(); err != nil {
		return Header{}, err
	}
	if h.Height, err = d.Uint64(); err != nil {
		return Header{}, err
	}
	if h.Difficulty, err = d.Uint64(); err != nil {
		return Header{}, err
	}
	if h.Nonce, err = d.Uint64(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Bytes returns h's canonical encoding.
func (h Header) Bytes() []byte {
	e := wire.NewEncoder()
	h.Encode(e)
	return e.Bytes()
}

// Hash returns the digest of the header's canonical encoding alone —
// changes to the transaction list only reach it via MerkleRoot.
func (h Header) Hash() ledger.Hash {
	return ledger.Hash(sha256.Sum256(h.Bytes()))
}

// Block is a header paired with the transaction list it commits to.
type Block struct {
	Header       Header
	Transactions []ledger.Transaction
}

// Encode appends b's canonical encoding to e.
func (b Block) Encode(e *wire.Encoder) {
	b.Header.Encode(e)
	e.PutUint32(uint32(len(b.Transactions)))
	for _, tx := range b.Transactions {
		tx.Encode(e)
	}
}

// DecodeBlock reads a Block from d.
func DecodeBlock(d *wire.Decoder) (Block, error) {
	header, err := DecodeHeader(d)
	if err != nil {
		return Block{}, err
	}
	n, err := d.Uint32()
	if err != nil {
		return Block{}, err
	}
	txs := make([]ledger.Transaction, n)
	for i := range txs {
		if txs[i], err = ledger.DecodeTransaction(d); err != nil {
			return Block{}, err
		}
	}
	return Block{Header: header, Transactions: txs}, nil
}

// Bytes returns b's canonical encoding.
func (b Block) Bytes() []byte {
	e := wire.NewEncoder()
	b.Encode(e)
	return e.Bytes()
}

// Hash is the header's hash; the body only influences it through
// Header.MerkleRoot.
func (b Block) Hash() ledger.Hash { return b.Header.Hash() }

// NewHeader builds a header for the given transaction list, computing
// its Merkle root.
func NewHeader(version uint32, prevHash ledger.Hash, height, difficulty, nonce, timestamp uint64, txs []ledger.Transaction) Header {
	return Header{
		Version:    version,
		PrevHash:   prevHash,
		MerkleRoot: MerkleRoot(txs),
		Timestamp:  timestamp,
		Height:     height,
		Difficulty: difficulty,
		Nonce:      nonce,
	}
}

// MerkleRoot builds a binary Merkle tree over each transaction's hash.
// A level of odd cardinality duplicates its last hash before pairing.
// An empty transaction list yields the all-zero root.
func MerkleRoot(txs []ledger.Transaction) ledger.Hash {
	if len(txs) == 0 {
		return ledger.Hash{}
	}
	level := make([]ledger.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.Hash()
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]ledger.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

func hashPair(a, b ledger.Hash) ledger.Hash {
	buf := make([]byte, 0, 64)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return ledger.Hash(sha256.Sum256(buf))
}
