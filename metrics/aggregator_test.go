package metrics

import "testing"

func TestAverageBlockTimeEmptyWindow(t *testing.T) {
	a := NewAggregator()
	if got := a.AverageBlockTime(); got != 0 {
		t.Errorf("AverageBlockTime() on an empty window = %f, want 0", got)
	}
}

func TestAverageBlockTimeSingleObservation(t *testing.T) {
	a := NewAggregator()
	a.ObserveBlock(100, 1000)
	if got := a.AverageBlockTime(); got != 0 {
		t.Errorf("AverageBlockTime() after one observation = %f, want 0", got)
	}
}

func TestAverageBlockTimeRegularSpacing(t *testing.T) {
	a := NewAggregator()
	base := uint64(1_700_000_000)
	for i := 0; i < 5; i++ {
		a.ObserveBlock(100, base+uint64(i)*30)
	}
	if got := a.AverageBlockTime(); got != 30 {
		t.Errorf("AverageBlockTime() = %f, want 30", got)
	}
}

func TestAverageBlockTimeWindowEviction(t *testing.T) {
	a := NewAggregator()
	base := uint64(0)
	for i := 0; i < blockTimeWindow+10; i++ {
		a.ObserveBlock(1, base+uint64(i)*10)
	}
	if got := a.AverageBlockTime(); got != 10 {
		t.Errorf("AverageBlockTime() after window eviction = %f, want 10", got)
	}
}

func TestSetMempoolSizeDoesNotPanic(t *testing.T) {
	a := NewAggregator()
	a.SetMempoolSize(42)
	a.SetMempoolSize(0)
}
