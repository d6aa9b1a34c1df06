package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
)

// DecoyOutput is a foreign output the builder may draw as a ring
// decoy; it only needs the reference and the one-time key that ring
// signatures sign over.
type DecoyOutput struct {
	Reference ledger.OutputReference
	Output    ledger.Output
}

// BuildRequest bundles the builder's inputs: the local keystore, the
// candidate pool of owned, spendable outputs, the payment recipient
// and amount, the fee, the target ring size and a decoy pool of
// foreign outputs.
type BuildRequest struct {
	Keystore  *Keystore
	Candidates []OwnedOutput
	Recipient crypto.PublicAddress
	Amount    uint64
	Fee       uint64
	RingSize  int
	Decoys    []DecoyOutput
	Timestamp uint64
}

// Build runs the transaction-construction algorithm: select inputs
// greedily, build the payment output and an optional change output,
// reconcile blinding factors so the balance identity holds, assemble a
// ring (real output plus shuffled decoys) per input, and sign.
func Build(req BuildRequest) (ledger.Transaction, error) {
	if req.Amount == 0 || req.Amount+req.Fee < req.Amount {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	if req.RingSize < 2 {
		return ledger.Transaction{}, fmt.Errorf("%w: ring size must be at least 2", ErrTransactionBuild)
	}

	selected, total, err := selectInputs(req.Candidates, req.Amount, req.Fee)
	if err != nil {
		return ledger.Transaction{}, err
	}
	change := total - req.Amount - req.Fee

	paymentBlinding := crypto.RandomScalar()
	paymentProof, paymentCommitment, err := crypto.Prove(req.Amount, paymentBlinding)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("%w: %v", ErrTransactionBuild, err)
	}
	r := crypto.RandomScalar()
	paymentR, paymentP := crypto.DeriveOneTimeKey(req.Recipient, r)
	outputs := []ledger.Output{{
		Commitment: crypto.CommitmentFromPoint(paymentCommitment),
		Proof:      paymentProof,
		OneTimeKey: paymentP,
		TxPublic:   paymentR,
	}}

	pseudoBlindings := make([]crypto.Scalar, len(selected))
	sumPseudo := crypto.ZeroScalar()
	for i := range selected {
		if i == len(selected)-1 && change == 0 {
			continue // last pseudo blinding resolved after the loop when there's no change output
		}
		pseudoBlindings[i] = crypto.RandomScalar()
		sumPseudo = sumPseudo.Add(pseudoBlindings[i])
	}

	if change > 0 {
		// Free variable: the change output's blinding absorbs whatever
		// is needed so Σ pseudo blindings == Σ output blindings. The
		// loop above already assigned and summed a random blinding for
		// every selected index, including the last, since change != 0.
		changeBlinding := sumPseudo.Sub(paymentBlinding)
		changeProof, changeCommitment, err := crypto.Prove(change, changeBlinding)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("%w: %v", ErrTransactionBuild, err)
		}
		changeR := crypto.RandomScalar()
		changeOneTimeR, changeOneTimeP := crypto.DeriveOneTimeKey(req.Keystore.PublicAddress(), changeR)
		outputs = append(outputs, ledger.Output{
			Commitment: crypto.CommitmentFromPoint(changeCommitment),
			Proof:      changeProof,
			OneTimeKey: changeOneTimeP,
			TxPublic:   changeOneTimeR,
		})
	} else {
		// No change output: the last input's pseudo blinding is the
		// free variable, fixed so the sum matches the payment alone.
		pseudoBlindings[len(selected)-1] = paymentBlinding.Sub(sumPseudo)
	}

	inputs := make([]ledger.Input, len(selected))
	secretIndices := make([]int, len(selected))
	for i, owned := range selected {
		ring, secretIndex, err := assembleRing(owned, req.Decoys, req.RingSize)
		if err != nil {
			return ledger.Transaction{}, err
		}
		pseudoCommitment := crypto.Commit(owned.Amount, pseudoBlindings[i])
		image := crypto.GenerateKeyImage(owned.SpendScalar, owned.Output.OneTimeKey)
		inputs[i] = ledger.Input{
			Ring:             ring,
			PseudoCommitment: pseudoCommitment,
			KeyImage:         image,
		}
		secretIndices[i] = secretIndex
	}

	tx := ledger.Transaction{
		Version:   1,
		Inputs:    inputs,
		Outputs:   outputs,
		Fee:       req.Fee,
		Timestamp: req.Timestamp,
	}

	msg := tx.SigningBytes()
	for i, owned := range selected {
		ringKeys := make([]crypto.Point, len(inputs[i].Ring))
		for j, ref := range inputs[i].Ring {
			out, ok := refOutput(owned, req.Decoys, ref)
			if !ok {
				return ledger.Transaction{}, fmt.Errorf("%w: ring member lost during signing", ErrTransactionBuild)
			}
			ringKeys[j] = out.OneTimeKey
		}
		sig, err := crypto.Sign(ringKeys, secretIndices[i], owned.SpendScalar, msg)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("%w: %v", ErrTransactionBuild, err)
		}
		inputs[i].Signature = sig
	}
	tx.Inputs = inputs

	if !ledger.ValidateBalance(tx) {
		return ledger.Transaction{}, fmt.Errorf("%w: balance reconciliation failed", ErrTransactionBuild)
	}

	return tx, nil
}

func selectInputs(candidates []OwnedOutput, amount, fee uint64) ([]OwnedOutput, uint64, error) {
	var selected []OwnedOutput
	var total uint64
	for _, c := range candidates {
		selected = append(selected, c)
		total += c.Amount
		if total >= amount+fee {
			return selected, total, nil
		}
	}
	return nil, 0, ErrInsufficientFunds
}

// assembleRing draws RingSize-1 decoys without replacement, rejecting
// the real output if it appears in the decoy pool, shuffles the real
// output into a uniformly random position, and returns the resulting
// ring of references alongside the real output's index within it.
func assembleRing(real OwnedOutput, decoys []DecoyOutput, ringSize int) ([]ledger.OutputReference, int, error) {
	need := ringSize - 1
	pool := make([]DecoyOutput, 0, len(decoys))
	for _, d := range decoys {
		if d.Reference == real.Reference {
			continue
		}
		pool = append(pool, d)
	}
	if len(pool) < need {
		return nil, 0, fmt.Errorf("%w: not enough decoys available", ErrTransactionBuild)
	}

	chosen, err := sampleWithoutReplacement(pool, need)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTransactionBuild, err)
	}

	refs := make([]ledger.OutputReference, 0, ringSize)
	refs = append(refs, real.Reference)
	for _, d := range chosen {
		refs = append(refs, d.Reference)
	}
	if err := shuffleRefs(refs); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTransactionBuild, err)
	}

	secretIndex := -1
	for i, ref := range refs {
		if ref == real.Reference {
			secretIndex = i
			break
		}
	}
	return refs, secretIndex, nil
}

func sampleWithoutReplacement(pool []DecoyOutput, n int) ([]DecoyOutput, error) {
	remaining := append([]DecoyOutput(nil), pool...)
	chosen := make([]DecoyOutput, 0, n)
	for i := 0; i < n; i++ {
		idx, err := randomIndex(len(remaining))
		if err != nil {
			return nil, err
		}
		chosen = append(chosen, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return chosen, nil
}

func shuffleRefs(refs []ledger.OutputReference) error {
	for i := len(refs) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return err
		}
		refs[i], refs[j] = refs[j], refs[i]
	}
	return nil
}

func randomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("wallet: cannot sample from empty pool")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

func refOutput(real OwnedOutput, decoys []DecoyOutput, ref ledger.OutputReference) (ledger.Output, bool) {
	if ref == real.Reference {
		return real.Output, true
	}
	for _, d := range decoys {
		if d.Reference == ref {
			return d.Output, true
		}
	}
	return ledger.Output{}, false
}
