package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/veilcoin/core/block"
	"github.com/veilcoin/core/crypto"
	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/storage"
	"github.com/veilcoin/core/wallet"
	"github.com/veilcoin/core/wire"
)

const walletFile = "wallet.dat"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateWallet()
	case "address":
		showAddress()
	case "send":
		sendTransaction()
	case "balance":
		queryBalance()
	case "scan":
		scanChain()
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  wallet generate                      - generate a new stealth address")
	fmt.Println("  wallet address                        - show the wallet's public address")
	fmt.Println("  wallet send <to-address> <amount>     - build and save a transaction")
	fmt.Println("  wallet balance <datadir>               - count recognized outputs on a node's chain")
	fmt.Println("  wallet scan <datadir>                  - list recognized outputs on a node's chain")
}

func generateWallet() {
	ks := wallet.GenerateKeystore()
	if err := saveKeystore(ks); err != nil {
		log.Fatalf("failed to save wallet: %v", err)
	}

	fmt.Println("wallet generated")
	fmt.Println("saved to:", walletFile)
	fmt.Println()
	printAddress(ks.PublicAddress())
	fmt.Println()
	fmt.Println("keep", walletFile, "secure: it holds your view and spend secrets in cleartext")
}

func showAddress() {
	ks, err := loadKeystore()
	if err != nil {
		log.Fatalf("failed to load wallet: %v", err)
	}
	printAddress(ks.PublicAddress())
}

func printAddress(addr crypto.PublicAddress) {
	e := wire.NewEncoder()
	crypto.EncodePublicAddress(e, addr)
	fmt.Println("address:", hex.EncodeToString(e.Bytes()))
}

func parseAddress(s string) (crypto.PublicAddress, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return crypto.PublicAddress{}, fmt.Errorf("invalid address encoding: %w", err)
	}
	d := wire.NewDecoder(raw)
	addr, err := crypto.DecodePublicAddressField(d)
	if err != nil {
		return crypto.PublicAddress{}, err
	}
	if err := d.Done(); err != nil {
		return crypto.PublicAddress{}, err
	}
	return addr, nil
}

func sendTransaction() {
	if len(os.Args) < 4 {
		fmt.Println("usage: wallet send <recipient-address> <amount> [datadir]")
		os.Exit(1)
	}
	recipient, err := parseAddress(os.Args[2])
	if err != nil {
		log.Fatalf("invalid recipient address: %v", err)
	}
	var amount uint64
	if _, err := fmt.Sscanf(os.Args[3], "%d", &amount); err != nil {
		log.Fatalf("invalid amount: %v", err)
	}
	dataDir := "./data"
	if len(os.Args) > 4 {
		dataDir = os.Args[4]
	}

	ks, err := loadKeystore()
	if err != nil {
		log.Fatalf("failed to load wallet: %v", err)
	}

	candidates, decoys, err := scanDataDir(dataDir, ks.StealthAddress())
	if err != nil {
		log.Fatalf("failed to scan chain: %v", err)
	}

	tx, err := wallet.Build(wallet.BuildRequest{
		Keystore:   ks,
		Candidates: candidates,
		Recipient:  recipient,
		Amount:     amount,
		Fee:        1000,
		RingSize:   11,
		Decoys:     decoys,
	})
	if err != nil {
		log.Fatalf("failed to build transaction: %v", err)
	}

	fmt.Println("transaction built:")
	fmt.Printf("  amount: %d\n", amount)
	fmt.Printf("  fee:    %d\n", tx.Fee)
	fmt.Printf("  hash:   %x\n", tx.Hash())

	txFile := fmt.Sprintf("tx_%x.dat", tx.Hash()[:4])
	if err := os.WriteFile(txFile, tx.Bytes(), 0644); err != nil {
		log.Fatalf("failed to save transaction: %v", err)
	}
	fmt.Println()
	fmt.Println("saved to", txFile, "- submit this to a node to broadcast it")
}

func queryBalance() {
	dataDir := "./data"
	if len(os.Args) > 2 {
		dataDir = os.Args[2]
	}
	ks, err := loadKeystore()
	if err != nil {
		log.Fatalf("failed to load wallet: %v", err)
	}
	candidates, _, err := scanDataDir(dataDir, ks.StealthAddress())
	if err != nil {
		log.Fatalf("failed to scan chain: %v", err)
	}
	fmt.Printf("recognized %d output(s)\n", len(candidates))
	fmt.Println("amounts require the blinding factor carried alongside each payment")
	fmt.Println("out-of-band; this wallet does not implement that channel.")
}

func scanChain() {
	dataDir := "./data"
	if len(os.Args) > 2 {
		dataDir = os.Args[2]
	}
	ks, err := loadKeystore()
	if err != nil {
		log.Fatalf("failed to load wallet: %v", err)
	}
	candidates, _, err := scanDataDir(dataDir, ks.StealthAddress())
	if err != nil {
		log.Fatalf("failed to scan chain: %v", err)
	}
	for _, c := range candidates {
		fmt.Printf("%x:%d\n", c.Reference.TxHash, c.Reference.Index)
	}
}

// scanDataDir walks every block the local node has stored, scanning
// each transaction's outputs against addr. Matched outputs are
// returned both as spend candidates (missing Amount/Blinding, which
// only the view-key machinery that delivered the payment can supply)
// and folded into the decoy pool every other output contributes to.
func scanDataDir(dataDir string, addr crypto.StealthAddress) ([]wallet.OwnedOutput, []wallet.DecoyOutput, error) {
	state := ledger.NewState()
	db, err := storage.Open(dataDir+"/veilcoin.db", state)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	height, err := db.GetLatestHeight()
	if err != nil {
		return nil, nil, err
	}

	var owned []wallet.OwnedOutput
	var decoys []wallet.DecoyOutput
	for h := uint64(0); h <= height; h++ {
		b, err := db.GetBlock(h)
		if err != nil {
			continue
		}
		scanBlock(b, addr, &owned, &decoys)
	}
	return owned, decoys, nil
}

func scanBlock(b block.Block, addr crypto.StealthAddress, owned *[]wallet.OwnedOutput, decoys *[]wallet.DecoyOutput) {
	for _, tx := range b.Transactions {
		for _, m := range wallet.Scan(tx, addr) {
			*owned = append(*owned, wallet.OwnedOutput{
				Reference:   m.Reference,
				Output:      m.Output,
				SpendScalar: crypto.DeriveSpendKey(addr, m.Output.TxPublic),
			})
		}
		for i, out := range tx.Outputs {
			*decoys = append(*decoys, wallet.DecoyOutput{
				Reference: ledger.OutputReference{TxHash: tx.Hash(), Index: uint32(i)},
				Output:    out,
			})
		}
	}
}

// saveKeystore writes the keystore's secret material to disk as raw
// scalar bytes. Per the keystore's own contract, this file must never
// be logged or displayed.
func saveKeystore(ks *wallet.Keystore) error {
	addr := ks.StealthAddress()
	e := wire.NewEncoder()
	crypto.EncodeScalar(e, addr.ViewSecret)
	crypto.EncodeScalar(e, addr.SpendSecret)
	return os.WriteFile(walletFile, e.Bytes(), 0600)
}

func loadKeystore() (*wallet.Keystore, error) {
	data, err := os.ReadFile(walletFile)
	if err != nil {
		return nil, fmt.Errorf("wallet file not found, run 'wallet generate' first: %w", err)
	}
	d := wire.NewDecoder(data)
	viewSecret, err := crypto.DecodeScalarField(d)
	if err != nil {
		return nil, err
	}
	spendSecret, err := crypto.DecodeScalarField(d)
	if err != nil {
		return nil, err
	}
	if err := d.Done(); err != nil {
		return nil, err
	}
	addr := crypto.StealthAddress{
		ViewSecret:  viewSecret,
		SpendSecret: spendSecret,
		View:        crypto.ScalarBaseMult(viewSecret),
		Spend:       crypto.ScalarBaseMult(spendSecret),
	}
	return wallet.NewKeystore(addr), nil
}
