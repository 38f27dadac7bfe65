package stats

import (
	"math/rand/v2"
	"slices"
	"sync"
)

const defaultSampleSize = 128

// ReservoirSampler keeps a bounded, uniformly chosen sample of latencies so
// long running processes can report percentiles without holding every value.
type ReservoirSampler struct {
	samples []int64
	size    int
	seen    int64
	mu      sync.Mutex
}

func NewReservoirSampler(size int) *ReservoirSampler {
	if size <= 0 {
		size = defaultSampleSize
	}
	return &ReservoirSampler{
		size:    size,
		samples: make([]int64, 0, size),
	}
}

func (rs *ReservoirSampler) Add(value int64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.seen++
	if len(rs.samples) < rs.size {
		rs.samples = append(rs.samples, value)
		return
	}

	//nolint:gosec // sampling, not security
	if j := rand.Int64N(rs.seen); j < int64(rs.size) {
		rs.samples[j] = value
	}
}

// Percentiles returns p50, p95 and p99 of the current sample, zeros when empty.
func (rs *ReservoirSampler) Percentiles() (p50, p95, p99 int64) {
	rs.mu.Lock()
	sorted := slices.Clone(rs.samples)
	rs.mu.Unlock()

	if len(sorted) == 0 {
		return 0, 0, 0
	}
	slices.Sort(sorted)

	return pick(sorted, 50), pick(sorted, 95), pick(sorted, 99)
}

func (rs *ReservoirSampler) Count() int64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.seen
}

func pick(sorted []int64, pct int) int64 {
	idx := len(sorted) * pct / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
