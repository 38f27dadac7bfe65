package nerdstats

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/thushan/olla-explorer/pkg/format"
)

/*
	nerdstats takes a snapshot of the Go runtime, served on /internal/process
	and dumped to the log when the explorer shuts down.

	See: https://pkg.go.dev/runtime#MemStats for the underlying fields.
*/

const (
	PressureLow    = "LOW"
	PressureMedium = "MEDIUM"
	PressureHigh   = "HIGH"
)

type NerdStats struct {
	LastGC      time.Time
	BuildInfo   *debug.BuildInfo
	GoVersion   string
	Uptime      time.Duration
	TotalGCTime time.Duration

	HeapAlloc    uint64
	HeapSys      uint64
	HeapInuse    uint64
	HeapReleased uint64
	StackInuse   uint64
	TotalAlloc   uint64
	Mallocs      uint64
	Frees        uint64

	GCCPUFraction float64
	NumCgoCall    int64
	NumGoroutines int
	NumCPU        int
	GOMAXPROCS    int
	NumGC         uint32
}

func Snapshot(startTime time.Time) *NerdStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &NerdStats{
		HeapAlloc:     m.HeapAlloc,
		HeapSys:       m.HeapSys,
		HeapInuse:     m.HeapInuse,
		HeapReleased:  m.HeapReleased,
		StackInuse:    m.StackInuse,
		TotalAlloc:    m.TotalAlloc,
		Mallocs:       m.Mallocs,
		Frees:         m.Frees,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
		NumGoroutines: runtime.NumGoroutine(),
		NumCgoCall:    runtime.NumCgoCall(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(startTime),
	}

	if m.LastGC > 0 {
		stats.LastGC = time.Unix(0, int64(m.LastGC))
		stats.TotalGCTime = time.Duration(m.PauseTotalNs)
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		stats.BuildInfo = info
	}

	return stats
}

// MemoryPressure is a rough read of how hard the heap is being worked
func (ns *NerdStats) MemoryPressure() string {
	if ns.HeapSys == 0 {
		return PressureLow
	}
	heapUsage := float64(ns.HeapInuse) / float64(ns.HeapSys)
	allocsPerFree := float64(ns.Mallocs) / float64(ns.Frees+1)

	switch {
	case heapUsage > 0.9 && allocsPerFree > 1.5:
		return PressureHigh
	case heapUsage > 0.7 || allocsPerFree > 1.2:
		return PressureMedium
	}
	return PressureLow
}

// GoroutineHealth flags runaway goroutines. A fetch holds at most a few
// workers per server, so hundreds means something is stuck upstream.
func (ns *NerdStats) GoroutineHealth() string {
	switch {
	case ns.NumGoroutines > 1000:
		return "CONCERNING"
	case ns.NumGoroutines > 500:
		return "ELEVATED"
	case ns.NumGoroutines > 100:
		return "NORMAL"
	}
	return "HEALTHY"
}

func (ns *NerdStats) AverageGCPause() string {
	if ns.NumGC == 0 {
		return "N/A"
	}
	return format.Duration(ns.TotalGCTime / time.Duration(ns.NumGC))
}

// BuildSummary picks the interesting bits out of the embedded build info
func (ns *NerdStats) BuildSummary() map[string]string {
	summary := make(map[string]string)
	if ns.BuildInfo == nil {
		return summary
	}

	summary["path"] = ns.BuildInfo.Path
	summary["main_version"] = ns.BuildInfo.Main.Version
	for _, setting := range ns.BuildInfo.Settings {
		switch setting.Key {
		case "CGO_ENABLED", "GOARCH", "GOOS", "vcs.revision", "vcs.time":
			summary[setting.Key] = setting.Value
		}
	}
	return summary
}
