package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veilcoin/core/block"
	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/metrics"
	"github.com/veilcoin/core/p2p"
	"github.com/veilcoin/core/storage"
)

type Config struct {
	DataDir        string
	P2PPort        int
	BootstrapPeers []string
	MetricsAddr    string
}

func main() {
	cfg := parseFlags()

	node, err := NewNode(cfg)
	if err != nil {
		log.Fatalf("failed to create node: %v", err)
	}

	if err := node.Start(); err != nil {
		log.Fatalf("failed to start node: %v", err)
	}

	log.Printf("node started")
	log.Printf("peer id: %s", node.network.GetHostID())
	log.Printf("listening on: %v", node.network.GetMultiaddrs())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down...")
	node.Stop()
}

// Node wires together persistent storage, in-memory ledger state,
// gossip networking and metrics. Block production itself is not this
// package's concern: handleBlock below is the hook an external
// consensus collaborator drives.
type Node struct {
	config  *Config
	db      *storage.Database
	state   *ledger.State
	network *p2p.Network
	metrics *metrics.Aggregator

	mu     sync.Mutex
	mempool []ledger.Transaction
}

func NewNode(cfg *Config) (*Node, error) {
	state := ledger.NewState()

	db, err := storage.Open(cfg.DataDir+"/veilcoin.db", state)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	network, err := p2p.NewNetwork(cfg.P2PPort, cfg.BootstrapPeers)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create network: %w", err)
	}

	node := &Node{
		config:  cfg,
		db:      db,
		state:   state,
		network: network,
		metrics: metrics.NewAggregator(),
	}

	network.SetBlockHandler(node.handleBlock)
	network.SetTxHandler(node.handleTransaction)

	return node, nil
}

func (n *Node) Start() error {
	n.startMetricsServer()
	return n.network.Start()
}

func (n *Node) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{Registry: metrics.Registry}))
	go func() {
		if err := http.ListenAndServe(n.config.MetricsAddr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()
}

func (n *Node) Stop() {
	n.network.Close()
	n.db.Close()
}

// handleBlock validates and applies a block gossiped by a peer.
// Whether this node accepts the block as canonical, and any
// fork-choice or finality rule, is the external consensus
// collaborator's decision — by the time a block reaches here it is
// assumed already selected for application.
func (n *Node) handleBlock(b block.Block) error {
	log.Printf("received block at height %d", b.Header.Height)

	if err := n.state.ApplyBlock(b.Header.Height, b.Transactions); err != nil {
		return fmt.Errorf("failed to apply block: %w", err)
	}

	if err := n.db.SaveBlock(b); err != nil {
		return fmt.Errorf("failed to save block: %w", err)
	}
	if err := n.db.UpdateLatestHeight(b.Header.Height); err != nil {
		return fmt.Errorf("failed to update height: %w", err)
	}

	n.metrics.ObserveBlock(b.Header.Difficulty, b.Header.Timestamp)
	n.removeConfirmed(b.Transactions)

	log.Printf("block %d applied", b.Header.Height)
	return nil
}

// handleTransaction validates a gossiped transaction against the
// self-contained invariant and the current ledger state, and adds it
// to the local mempool.
func (n *Node) handleTransaction(tx ledger.Transaction) error {
	if err := ledger.ValidateSelfContained(tx); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	if err := ledger.ValidateAgainstLedger(tx, n.state); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	n.mu.Lock()
	n.mempool = append(n.mempool, tx)
	n.metrics.SetMempoolSize(len(n.mempool))
	n.mu.Unlock()

	log.Printf("transaction added to pool: %x", tx.Hash())
	return nil
}

func (n *Node) removeConfirmed(confirmed []ledger.Transaction) {
	confirmedHashes := make(map[ledger.Hash]struct{}, len(confirmed))
	for _, tx := range confirmed {
		confirmedHashes[tx.Hash()] = struct{}{}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	remaining := n.mempool[:0]
	for _, tx := range n.mempool {
		if _, ok := confirmedHashes[tx.Hash()]; !ok {
			remaining = append(remaining, tx)
		}
	}
	n.mempool = remaining
	n.metrics.SetMempoolSize(len(n.mempool))
}

func parseFlags() *Config {
	dataDir := flag.String("datadir", "./data", "Data directory")
	p2pPort := flag.Int("port", 9000, "P2P listen port")
	bootstrap := flag.String("bootstrap", "", "Bootstrap peer addresses (comma-separated)")
	metricsAddr := flag.String("metrics", "localhost:9100", "Metrics listen address")

	flag.Parse()

	var bootstrapPeers []string
	if *bootstrap != "" {
		bootstrapPeers = strings.Split(*bootstrap, ",")
	}

	return &Config{
		DataDir:        *dataDir,
		P2PPort:        *p2pPort,
		BootstrapPeers: bootstrapPeers,
		MetricsAddr:    *metricsAddr,
	}
}
