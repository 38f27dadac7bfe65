package pool

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		cpus       int
		expected   int
	}{
		{"configured wins", 3, 16, 3},
		{"configured above cap is honoured", 12, 4, 12},
		{"auto uses cpu count", 0, 4, 4},
		{"auto capped at max", 0, 64, MaxWorkers},
		{"auto with no cpus", 0, 0, MinWorkers},
		{"negative configured falls back to auto", -1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveWorkers(tt.configured, tt.cpus))
		})
	}
}

func TestDefaultWorkers_Bounds(t *testing.T) {
	workers := DefaultWorkers(0)
	assert.GreaterOrEqual(t, workers, MinWorkers)
	assert.LessOrEqual(t, workers, MaxWorkers)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(2, 8))
	assert.Equal(t, 8, Clamp(20, 8))
	assert.Equal(t, MinWorkers, Clamp(0, 8))
}

func TestNewExecutor_MinimumOneWorker(t *testing.T) {
	assert.Equal(t, 1, NewExecutor(0).Workers())
	assert.Equal(t, 1, NewExecutor(-5).Workers())
	assert.Equal(t, 4, NewExecutor(4).Workers())
}

func TestStream_ReturnsEveryResult(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	var got []int
	for r := range Stream(context.Background(), NewExecutor(3), items, func(_ context.Context, n int) int {
		return n * n
	}) {
		got = append(got, r)
	}

	sort.Ints(got)
	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100}, got)
}

func TestStream_EmptyItems(t *testing.T) {
	ch := Stream(context.Background(), NewExecutor(2), []string{}, func(_ context.Context, s string) string {
		t.Fatal("fn should not be called")
		return s
	})

	_, open := <-ch
	assert.False(t, open)
}

func TestStream_RespectsWorkerLimit(t *testing.T) {
	const limit = 2
	var inFlight, peak atomic.Int32

	items := make([]int, 12)
	for r := range Stream(context.Background(), NewExecutor(limit), items, func(_ context.Context, _ int) bool {
		current := inFlight.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return true
	}) {
		require.True(t, r)
	}

	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestStream_CompletionOrder(t *testing.T) {
	// the slow item is submitted first but must not hold back the fast one
	items := []time.Duration{80 * time.Millisecond, 0}

	var order []time.Duration
	for r := range Stream(context.Background(), NewExecutor(2), items, func(_ context.Context, d time.Duration) time.Duration {
		time.Sleep(d)
		return d
	}) {
		order = append(order, r)
	}

	require.Len(t, order, 2)
	assert.Equal(t, time.Duration(0), order[0])
}
