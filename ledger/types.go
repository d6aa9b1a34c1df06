// Package ledger defines the confidential transaction object model —
// outputs, inputs, and transactions — and the UTXO/key-image state
// that verifies and applies them.
package ledger

import (
	"crypto/sha256"

	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/wire"
)

// Hash is a 32-byte digest of an object's canonical encoding.
type Hash [32]byte

func hashBytes(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// Output is a single confidential payment destination: a hidden
// amount, a proof that it is non-negative and bounded, and the
// one-time stealth keys a recipient uses to recognize and later spend
// it.
type Output struct {
	Commitment crypto.Commitment
	Proof      crypto.RangeProof
	OneTimeKey crypto.Point // P
	TxPublic   crypto.Point // R
}

// Verify checks the output's self-contained invariant: its range proof
// verifies against its commitment.
func (o Output) Verify() bool {
	return crypto.Verify(o.Proof, o.Commitment.Point())
}

// Encode appends o's canonical encoding to e.
func (o Output) Encode(e *wire.Encoder) {
	crypto.EncodeCommitment(e, o.Commitment)
	crypto.EncodeRangeProof(e, o.Proof)
	crypto.EncodePoint(e, o.OneTimeKey)
	crypto.EncodePoint(e, o.TxPublic)
}

// DecodeOutput reads an Output from d.
func DecodeOutput(d *wire.Decoder) (Output, error) {
	var o Output
	var err error
	if o.Commitment, err = crypto.DecodeCommitmentField(d); err != nil {
		return Output{}, err
	}
	if o.Proof, err = crypto.DecodeRangeProofField(d); err != nil {
		return Output{}, err
	}
	if o.OneTimeKey, err = crypto.DecodePointField(d); err != nil {
		return Output{}, err
	}
	if o.TxPublic, err = crypto.DecodePointField(d); err != nil {
		return Output{}, err
	}
	return o, nil
}

// Bytes returns o's canonical encoding.
func (o Output) Bytes() []byte {
	e := wire.NewEncoder()
	o.Encode(e)
	return e.Bytes()
}

// Hash returns the digest of o's canonical encoding.
func (o Output) Hash() Hash { return hashBytes(o.Bytes()) }

// OutputReference names an Output by the hash of the transaction that
// created it and its position in that transaction's output list.
type OutputReference struct {
	TxHash Hash
	Index  uint32
}

// Encode appends r's canonical encoding to e.
func (r OutputReference) Encode(e *wire.Encoder) {
	e.PutFixed(r.TxHash[:])
	e.PutUint32(r.Index)
}

// DecodeOutputReference reads an OutputReference from d.
func DecodeOutputReference(d *wire.Decoder) (OutputReference, error) {
	h, err := d.Fixed(32)
	if err != nil {
		return OutputReference{}, err
	}
	idx, err := d.Uint32()
	if err != nil {
		return OutputReference{}, err
	}
	var ref OutputReference
	copy(ref.TxHash[:], h)
	ref.Index = idx
	return ref, nil
}

// Input spends one output from a ring of candidates without revealing
// which: a ring signature over the ring's one-time public keys, the
// key image of the real spender, and a pseudo-output commitment — a
// fresh re-blinding of the spent amount, distinct from the real
// output's own public commitment, so the balance check below never has
// to expose which ring member's commitment it matches.
type Input struct {
	Ring             []OutputReference
	PseudoCommitment crypto.Commitment
	Signature        crypto.RingSignature
	KeyImage         crypto.KeyImage
}

// Encode appends i's canonical encoding to e.
func (i Input) Encode(e *wire.Encoder) {
	e.PutUint32(uint32(len(i.Ring)))
	for _, ref := range i.Ring {
		ref.Encode(e)
	}
	crypto.EncodeCommitment(e, i.PseudoCommitment)
	crypto.EncodeRingSignature(e, i.Signature)
	crypto.EncodeKeyImage(e, i.KeyImage)
}

// DecodeInput reads an Input from d.
func DecodeInput(d *wire.Decoder) (Input, error) {
	n, err := d.Uint32()
	if err != nil {
		return Input{}, err
	}
	ring := make([]OutputReference, n)
	for i := range ring {
		if ring[i], err = DecodeOutputReference(d); err != nil {
			return Input{}, err
		}
	}
	pc, err := crypto.DecodeCommitmentField(d)
	if err != nil {
		return Input{}, err
	}
	sig, err := crypto.DecodeRingSignatureField(d)
	if err != nil {
		return Input{}, err
	}
	ki, err := crypto.DecodeKeyImageField(d)
	if err != nil {
		return Input{}, err
	}
	return Input{Ring: ring, PseudoCommitment: pc, Signature: sig, KeyImage: ki}, nil
}

// Transaction composes inputs and outputs into a confidential, balanced
// transfer.
type Transaction struct {
	Version   uint32
	Inputs    []Input
	Outputs   []Output
	Fee       uint64
	Timestamp uint64
}

// Encode appends tx's canonical encoding to e.
func (tx Transaction) Encode(e *wire.Encoder) {
	e.PutUint32(tx.Version)
	e.PutUint32(uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		in.Encode(e)
	}
	e.PutUint32(uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		out.Encode(e)
	}
	e.PutUint64(tx.Fee)
	e.PutUint64(tx.Timestamp)
}

// DecodeTransaction reads a Transaction from d.
func DecodeTransaction(d *wire.Decoder) (Transaction, error) {
	var tx Transaction
	var err error
	if tx.Version, err = d.Uint32(); err != nil {
		return Transaction{}, err
	}
	nIn, err := d.Uint32()
	if err != nil {
		return Transaction{}, err
	}
	tx.Inputs = make([]Input, nIn)
	for i := range tx.Inputs {
		if tx.Inputs[i], err = DecodeInput(d); err != nil {
			return Transaction{}, err
		}
	}
	nOut, err := d.Uint32()
	if err != nil {
		return Transaction{}, err
	}
	tx.Outputs = make([]Output, nOut)
	for i := range tx.Outputs {
		if tx.Outputs[i], err = DecodeOutput(d); err != nil {
			return Transaction{}, err
		}
	}
	if tx.Fee, err = d.Uint64(); err != nil {
		return Transaction{}, err
	}
	if tx.Timestamp, err = d.Uint64(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Bytes returns tx's canonical encoding.
func (tx Transaction) Bytes() []byte {
	e := wire.NewEncoder()
	tx.Encode(e)
	return e.Bytes()
}

// Hash returns the digest of tx's canonical encoding.
func (tx Transaction) Hash() Hash { return hashBytes(tx.Bytes()) }

// SigningBytes returns the canonical encoding of everything a
// transaction's ring signatures are bound to: every input's ring,
// pseudo commitment and key image, and every output, fee and
// timestamp — but not the signatures themselves, so the same bytes
// can be computed before any input is signed and recomputed unchanged
// during verification.
func (tx Transaction) SigningBytes() []byte {
	e := wire.NewEncoder()
	e.PutUint32(tx.Version)
	e.PutUint32(uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		e.PutUint32(uint32(len(in.Ring)))
		for _, ref := range in.Ring {
			ref.Encode(e)
		}
		crypto.EncodeCommitment(e, in.PseudoCommitment)
		crypto.EncodeKeyImage(e, in.KeyImage)
	}
	e.PutUint32(uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		out.Encode(e)
	}
	e.PutUint64(tx.Fee)
	e.PutUint64(tx.Timestamp)
	return e.Bytes()
}

// EncodeTransaction is the package-level form of Transaction.Encode,
// used by callers (e.g. block) that only hold a *wire.Encoder.
func EncodeTransaction(e *wire.Encoder, tx Transaction) { tx.Encode(e) }
