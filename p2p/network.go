package p2p

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/multiformats/go-multiaddr"

	"github.com/veilcoin/core/block"
	"github.com/veilcoin/core/ledger"
	"github.com/veilcoin/core/wire"
)

const (
	ProtocolID  = "/veilcoin/1.0.0"
	BlockTopic  = "blocks"
	TxTopic     = "transactions"
	MaxPeers    = 50
	PeerTimeout = 30 * time.Second
)

// Network manages gossip of blocks and transactions over libp2p
// pubsub. It carries no consensus traffic: block production and
// finality are an external collaborator's concern.
type Network struct {
	host   host.Host
	pubsub *pubsub.PubSub
	ctx    context.Context
	cancel context.CancelFunc

	blockSub *pubsub.Subscription
	txSub    *pubsub.Subscription

	blockHandler BlockHandler
	txHandler    TxHandler

	peers     map[peer.ID]time.Time
	peerMutex sync.RWMutex
}

// BlockHandler processes a block received from a peer.
type BlockHandler func(b block.Block) error

// TxHandler processes a transaction received from a peer.
type TxHandler func(tx ledger.Transaction) error

// NewNetwork creates a new P2P network node and dials any bootstrap
// peers given.
func NewNetwork(listenPort int, bootstrapPeers []string) (*Network, error) {
	ctx, cancel := context.WithCancel(context.Background())

	h, err := libp2p.New(
		libp2p.ListenAddrStrings(
			fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", listenPort),
		),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		cancel()
		h.Close()
		return nil, err
	}

	n := &Network{
		host:   h,
		pubsub: ps,
		ctx:    ctx,
		cancel: cancel,
		peers:  make(map[peer.ID]time.Time),
	}

	for _, addr := range bootstrapPeers {
		if err := n.connectPeer(addr); err != nil {
			fmt.Printf("failed to connect to bootstrap peer %s: %v\n", addr, err)
		}
	}

	return n, nil
}

// Start subscribes to the block and transaction topics and begins
// peer bookkeeping.
func (n *Network) Start() error {
	blockSub, err := n.pubsub.Subscribe(BlockTopic)
	if err != nil {
		return err
	}
	n.blockSub = blockSub

	txSub, err := n.pubsub.Subscribe(TxTopic)
	if err != nil {
		return err
	}
	n.txSub = txSub

	go n.handleBlocks(blockSub)
	go n.handleTransactions(txSub)
	go n.managePeers()

	return nil
}

// SetBlockHandler sets the handler invoked for each block received
// from a peer.
func (n *Network) SetBlockHandler(handler BlockHandler) {
	n.blockHandler = handler
}

// SetTxHandler sets the handler invoked for each transaction received
// from a peer.
func (n *Network) SetTxHandler(handler TxHandler) {
	n.txHandler = handler
}

// BroadcastBlock gossips a block's canonical encoding to the network.
func (n *Network) BroadcastBlock(b block.Block) error {
	return n.pubsub.Publish(BlockTopic, b.Bytes())
}

// BroadcastTransaction gossips a transaction's canonical encoding to
// the network.
func (n *Network) BroadcastTransaction(tx ledger.Transaction) error {
	return n.pubsub.Publish(TxTopic, tx.Bytes())
}

func (n *Network) handleBlocks(sub *pubsub.Subscription) {
	for {
		msg, err := sub.Next(n.ctx)
		if err != nil {
			if n.ctx.Err() != nil {
				return
			}
			fmt.Printf("error receiving block message: %v\n", err)
			continue
		}
		if msg.ReceivedFrom == n.host.ID() {
			continue
		}
		n.updatePeer(msg.ReceivedFrom)

		if n.blockHandler == nil {
			continue
		}
		d := wire.NewDecoder(msg.Data)
		b, err := block.DecodeBlock(d)
		if err == nil {
			err = d.Done()
		}
		if err != nil {
			fmt.Printf("malformed block from peer: %v\n", err)
			continue
		}
		if err := n.blockHandler(b); err != nil {
			fmt.Printf("error handling block: %v\n", err)
		}
	}
}

func (n *Network) handleTransactions(sub *pubsub.Subscription) {
	for {
		msg, err := sub.Next(n.ctx)
		if err != nil {
			if n.ctx.Err() != nil {
				return
			}
			fmt.Printf("error receiving transaction message: %v\n", err)
			continue
		}
		if msg.ReceivedFrom == n.host.ID() {
			continue
		}
		n.updatePeer(msg.ReceivedFrom)

		if n.txHandler == nil {
			continue
		}
		d := wire.NewDecoder(msg.Data)
		tx, err := ledger.DecodeTransaction(d)
		if err == nil {
			err = d.Done()
		}
		if err != nil {
			fmt.Printf("malformed transaction from peer: %v\n", err)
			continue
		}
		if err := n.txHandler(tx); err != nil {
			fmt.Printf("error handling transaction: %v\n", err)
		}
	}
}

// connectPeer connects to a peer given its multiaddr string.
func (n *Network) connectPeer(addrStr string) error {
	addr, err := multiaddr.NewMultiaddr(addrStr)
	if err != nil {
		return err
	}

	peerInfo, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return err
	}

	return n.host.Connect(n.ctx, *peerInfo)
}

func (n *Network) updatePeer(p peer.ID) {
	n.peerMutex.Lock()
	defer n.peerMutex.Unlock()

	n.peers[p] = time.Now()
}

func (n *Network) managePeers() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n.cleanupPeers()
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *Network) cleanupPeers() {
	n.peerMutex.Lock()
	defer n.peerMutex.Unlock()

	now := time.Now()
	for p, lastSeen := range n.peers {
		if now.Sub(lastSeen) > PeerTimeout {
			delete(n.peers, p)
			n.host.Network().ClosePeer(p)
		}
	}
}

// GetPeerCount returns the number of recently active peers.
func (n *Network) GetPeerCount() int {
	n.peerMutex.RLock()
	defer n.peerMutex.RUnlock()

	return len(n.peers)
}

// GetHostID returns this node's peer ID.
func (n *Network) GetHostID() peer.ID {
	return n.host.ID()
}

// GetMultiaddrs returns this node's listen addresses.
func (n *Network) GetMultiaddrs() []multiaddr.Multiaddr {
	return n.host.Addrs()
}

// Close shuts down the network.
func (n *Network) Close() error {
	n.cancel()
	return n.host.Close()
}
