// Package storage persists blocks and transactions to disk with
// BadgerDB and adapts an in-memory ledger.State to the ledger.Ledger
// collaborator interface.
package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v3"

	"github.com/veilcoin/core/block"
	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/wire"
)

// Database wraps BadgerDB for block and transaction persistence, and
// reads through to an in-memory ledger.State for output resolution
// and key-image membership.
type Database struct {
	db    *badger.DB
	state *ledger.State
}

// Open opens or creates a BadgerDB database at path, backed by state
// for output resolution.
func Open(path string, state *ledger.State) (*Database, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Database{db: db, state: state}, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveBlock persists a block, indexed by both height and hash.
func (d *Database) SaveBlock(b block.Block) error {
	data := b.Bytes()
	return d.db.Update(func(txn *badger.Txn) error {
		key := makeBlockKey(b.Header.Height)
		if err := txn.Set(key, data); err != nil {
			return err
		}
		hashKey := makeBlockHashKey(b.Hash())
		return txn.Set(hashKey, data)
	})
}

// GetBlock retrieves a block by height.
func (d *Database) GetBlock(height uint64) (block.Block, error) {
	var b block.Block
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeBlockKey(height))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			dec := wire.NewDecoder(val)
			decoded, err := block.DecodeBlock(dec)
			if err != nil {
				return err
			}
			if err := dec.Done(); err != nil {
				return err
			}
			b = decoded
			return nil
		})
	})
	return b, err
}

// GetBlockByHash retrieves a block by hash.
func (d *Database) GetBlockByHash(hash ledger.Hash) (block.Block, error) {
	var b block.Block
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeBlockHashKey(hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			dec := wire.NewDecoder(val)
			decoded, err := block.DecodeBlock(dec)
			if err != nil {
				return err
			}
			if err := dec.Done(); err != nil {
				return err
			}
			b = decoded
			return nil
		})
	})
	return b, err
}

// GetLatestBlock retrieves the highest known block.
func (d *Database) GetLatestBlock() (block.Block, error) {
	height, err := d.GetLatestHeight()
	if err != nil {
		return block.Block{}, err
	}
	return d.GetBlock(height)
}

// GetLatestHeight retrieves the latest stored block height.
func (d *Database) GetLatestHeight() (uint64, error) {
	var height uint64

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("latest_height"))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				height = 0
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			d, err := wire.NewDecoder(val).Uint64()
			height = d
			return err
		})
	})

	return height, err
}

// UpdateLatestHeight records the latest stored block height.
func (d *Database) UpdateLatestHeight(height uint64) error {
	e := wire.NewEncoder()
	e.PutUint64(height)
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("latest_height"), e.Bytes())
	})
}

// SaveTransaction persists a transaction keyed by its hash.
func (d *Database) SaveTransaction(tx ledger.Transaction) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeTxKey(tx.Hash()), tx.Bytes())
	})
}

// GetTransaction retrieves a transaction by hash.
func (d *Database) GetTransaction(hash ledger.Hash) (ledger.Transaction, error) {
	var tx ledger.Transaction
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeTxKey(hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			dec := wire.NewDecoder(val)
			decoded, err := ledger.DecodeTransaction(dec)
			if err != nil {
				return err
			}
			if err := dec.Done(); err != nil {
				return err
			}
			tx = decoded
			return nil
		})
	})
	return tx, err
}

// Resolve satisfies ledger.Ledger by reading through to the backing
// chain state.
func (d *Database) Resolve(ref ledger.OutputReference) (ledger.Output, bool) {
	return d.state.Resolve(ref)
}

// ContainsKeyImage satisfies ledger.Ledger by reading through to the
// backing chain state.
func (d *Database) ContainsKeyImage(image crypto.KeyImage) bool {
	return d.state.ContainsKeyImage(image)
}

func makeBlockKey(height uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'b'
	key[1] = byte(height)
	key[2] = byte(height >> 8)
	key[3] = byte(height >> 16)
	key[4] = byte(height >> 24)
	key[5] = byte(height >> 32)
	key[6] = byte(height >> 40)
	key[7] = byte(height >> 48)
	key[8] = byte(height >> 56)
	return key
}

func makeBlockHashKey(hash ledger.Hash) []byte {
	key := make([]byte, 33)
	key[0] = 'h'
	copy(key[1:], hash[:])
	return key
}

func makeTxKey(hash ledger.Hash) []byte {
	key := make([]byte, 33)
	key[0] = 't'
	copy(key[1:], hash[:])
	return key
}
