// Package metrics exposes aggregate, network-wide counters as
// Prometheus collectors: block count, difficulty, mempool size, and a
// derived average block time and hashrate estimate. It never
// registers or exposes anything keyed by transaction, address or peer
// identity.
package metrics

import (
	"container/ring"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const blockTimeWindow = 64

var (
	blockCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "veilcoin_block_count",
		Help: "Number of blocks applied to the local chain state.",
	})
	difficulty = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "veilcoin_difficulty",
		Help: "Difficulty target of the most recently applied block header.",
	})
	mempoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "veilcoin_mempool_size",
		Help: "Number of transactions currently held in the local mempool.",
	})
	avgBlockTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "veilcoin_avg_block_time_seconds",
		Help: "Average spacing between the last observed block timestamps.",
	})
	hashrateEstimate = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "veilcoin_hashrate_estimate",
		Help: "Estimated network hashrate derived from difficulty and average block time.",
	})
)

// Registry is the registry every collector in this package is bound
// to. Callers mount it under an HTTP handler with promhttp.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(blockCount, difficulty, mempoolSize, avgBlockTime, hashrateEstimate)
}

// Aggregator maintains the sliding window of recent block timestamps
// that the average-block-time and hashrate gauges are derived from.
// Safe for concurrent use; block observation is expected to be
// single-writer (the node's chain-application path) while reads may
// come from anywhere.
type Aggregator struct {
	mu     sync.Mutex
	window *ring.Ring
	filled int
	last   uint64
}

// NewAggregator returns an Aggregator with an empty timestamp window.
func NewAggregator() *Aggregator {
	return &Aggregator{window: ring.New(blockTimeWindow)}
}

// ObserveBlock records a newly applied block's difficulty and
// timestamp, advances the block counter, and recomputes the derived
// average-block-time and hashrate gauges.
func (a *Aggregator) ObserveBlock(blockDifficulty uint64, timestamp uint64) {
	blockCount.Inc()
	difficulty.Set(float64(blockDifficulty))

	a.mu.Lock()
	defer a.mu.Unlock()

	a.window.Value = timestamp
	a.window = a.window.Next()
	if a.filled < blockTimeWindow {
		a.filled++
	}
	a.last = timestamp

	avg := a.averageBlockTimeLocked()
	avgBlockTime.Set(avg)
	if avg > 0 {
		// hashrate ≈ difficulty · 2^32 / avg_block_time_seconds
		hashrateEstimate.Set(float64(blockDifficulty) * 4294967296 / avg)
	} else {
		hashrateEstimate.Set(0)
	}
}

// SetMempoolSize reports the current mempool transaction count.
func (a *Aggregator) SetMempoolSize(n int) {
	mempoolSize.Set(float64(n))
}

// AverageBlockTime returns the current average spacing, in seconds,
// between the timestamps in the window.
func (a *Aggregator) AverageBlockTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.averageBlockTimeLocked()
}

func (a *Aggregator) averageBlockTimeLocked() float64 {
	if a.filled < 2 {
		return 0
	}
	timestamps := make([]uint64, 0, a.filled)
	a.window.Do(func(v any) {
		if v == nil {
			return
		}
		timestamps = append(timestamps, v.(uint64))
	})
	if len(timestamps) < 2 {
		return 0
	}
	min, max := timestamps[0], timestamps[0]
	for _, t := range timestamps {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	if max <= min {
		return 0
	}
	return float64(max-min) / float64(len(timestamps)-1)
}
