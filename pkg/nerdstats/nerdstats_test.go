package nerdstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	stats := Snapshot(start)

	assert.NotZero(t, stats.HeapSys)
	assert.GreaterOrEqual(t, stats.NumGoroutines, 1)
	assert.GreaterOrEqual(t, stats.Uptime, time.Minute)
	assert.NotEmpty(t, stats.GoVersion)
	assert.Positive(t, stats.NumCPU)
}

func TestMemoryPressure(t *testing.T) {
	tests := []struct {
		name     string
		stats    NerdStats
		expected string
	}{
		{"empty", NerdStats{}, PressureLow},
		{"idle", NerdStats{HeapSys: 100, HeapInuse: 20, Mallocs: 100, Frees: 100}, PressureLow},
		{"busy heap", NerdStats{HeapSys: 100, HeapInuse: 80, Mallocs: 100, Frees: 100}, PressureMedium},
		{"leaking", NerdStats{HeapSys: 100, HeapInuse: 95, Mallocs: 300, Frees: 100}, PressureHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.stats.MemoryPressure())
		})
	}
}

func TestGoroutineHealth(t *testing.T) {
	assert.Equal(t, "HEALTHY", (&NerdStats{NumGoroutines: 12}).GoroutineHealth())
	assert.Equal(t, "NORMAL", (&NerdStats{NumGoroutines: 200}).GoroutineHealth())
	assert.Equal(t, "ELEVATED", (&NerdStats{NumGoroutines: 600}).GoroutineHealth())
	assert.Equal(t, "CONCERNING", (&NerdStats{NumGoroutines: 5000}).GoroutineHealth())
}

func TestAverageGCPause(t *testing.T) {
	assert.Equal(t, "N/A", (&NerdStats{}).AverageGCPause())
	assert.Equal(t, "250ms", (&NerdStats{NumGC: 4, TotalGCTime: time.Second}).AverageGCPause())
}

func TestBuildSummary_NoBuildInfo(t *testing.T) {
	assert.Empty(t, (&NerdStats{}).BuildSummary())
}
