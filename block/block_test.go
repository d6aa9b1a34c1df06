package block

import (
	"testing"

	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/wire"
)

func txWithTimestamp(ts uint64) ledger.Transaction {
	return ledger.Transaction{Version: 1, Timestamp: ts}
}

func TestMerkleRootEmptyIsAllZero(t *testing.T) {
	root := MerkleRoot(nil)
	if root != (ledger.Hash{}) {
		t.Errorf("MerkleRoot of an empty list should be the all-zero hash")
	}
}

func TestMerkleRootSingleTransaction(t *testing.T) {
	tx := txWithTimestamp(1)
	root := MerkleRoot([]ledger.Transaction{tx})
	if root != tx.Hash() {
		t.Errorf("MerkleRoot of a single transaction should equal its own hash")
	}
}

func TestMerkleRootDeterministic(t *testing.T) {
	txs := []ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2), txWithTimestamp(3)}
	a := MerkleRoot(txs)
	b := MerkleRoot(txs)
	if a != b {
		t.Errorf("MerkleRoot should be deterministic for the same input")
	}
}

func TestMerkleRootOddLevelDuplicatesLastLeaf(t *testing.T) {
	three := []ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2), txWithTimestamp(3)}
	withDuplicate := []ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2), txWithTimestamp(3), txWithTimestamp(3)}
	if MerkleRoot(three) != MerkleRoot(withDuplicate) {
		t.Errorf("an odd-length level should duplicate its last leaf, matching an explicit duplicate entry")
	}
}

func TestMerkleRootSensitiveToOrder(t *testing.T) {
	a := MerkleRoot([]ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2)})
	b := MerkleRoot([]ledger.Transaction{txWithTimestamp(2), txWithTimestamp(1)})
	if a == b {
		t.Errorf("swapping transaction order should change the Merkle root")
	}
}

func TestMerkleRootSensitiveToContent(t *testing.T) {
	a := MerkleRoot([]ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2)})
	b := MerkleRoot([]ledger.Transaction{txWithTimestamp(1), txWithTimestamp(99)})
	if a == b {
		t.Errorf("changing a transaction's contents should change the Merkle root")
	}
}

func TestHeaderHashDependsOnMerkleRootOnly(t *testing.T) {
	txsA := []ledger.Transaction{txWithTimestamp(1)}
	txsB := []ledger.Transaction{txWithTimestamp(2)}

	headerA := NewHeader(1, ledger.Hash{}, 10, 100, 0, 5000, txsA)
	headerB := NewHeader(1, ledger.Hash{}, 10, 100, 0, 5000, txsB)
	if headerA.Hash() == headerB.Hash() {
		t.Errorf("headers over different transaction lists should hash differently")
	}

	blockA := Block{Header: headerA, Transactions: txsA}
	if blockA.Hash() != headerA.Hash() {
		t.Errorf("Block.Hash should equal its header's hash")
	}
}

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	txs := []ledger.Transaction{txWithTimestamp(1), txWithTimestamp(2)}
	header := NewHeader(1, ledger.Hash{9}, 3, 500, 42, 1000, txs)
	b := Block{Header: header, Transactions: txs}

	decoded, err := DecodeBlock(wire.NewDecoder(b.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if decoded.Header != b.Header {
		t.Errorf("round-tripped header mismatch")
	}
	if len(decoded.Transactions) != len(b.Transactions) {
		t.Fatalf("round-tripped transaction count mismatch")
	}
	if decoded.Hash() != b.Hash() {
		t.Errorf("round-tripped block hash mismatch")
	}
}
