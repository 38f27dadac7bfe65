package handlers

import (
	"net/http"
	"time"

	"github.com/thushan/olla-explorer/internal/adapter/discovery"
	"github.com/thushan/olla-explorer/internal/adapter/stats"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/pkg/format"
	"github.com/thushan/olla-explorer/pkg/nerdstats"
)

type statsResponse struct {
	Timestamp time.Time                   `json:"timestamp"`
	Client    *discovery.InventoryMetrics `json:"client,omitempty"`
	Uptime    string                      `json:"uptime"`
	stats.Snapshot
}

func (a *Application) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := statsResponse{
		Timestamp: time.Now(),
		Uptime:    format.Duration(time.Since(a.StartTime)),
	}
	if a.statsCollector != nil {
		response.Snapshot = a.statsCollector.Snapshot()
	}
	if a.inventory != nil {
		metrics := a.inventory.GetMetrics()
		response.Client = &metrics
	}

	_ = util.WriteJSON(w, http.StatusOK, response)
}

func (a *Application) metricsHandler(w http.ResponseWriter, r *http.Request) {
	a.statsCollector.MetricsHandler().ServeHTTP(w, r)
}

type processStatsResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Memory    struct {
		HeapAlloc      string `json:"heap_alloc"`
		HeapSys        string `json:"heap_sys"`
		HeapInuse      string `json:"heap_inuse"`
		StackInuse     string `json:"stack_inuse"`
		TotalAlloc     string `json:"total_alloc"`
		MemoryPressure string `json:"memory_pressure"`
	} `json:"memory"`
	GarbageCollection struct {
		AvgGCPause string `json:"avg_gc_pause"`
		NumGC      uint32 `json:"num_gc_cycles"`
	} `json:"garbage_collection"`
	Goroutines struct {
		HealthStatus string `json:"health_status"`
		Count        int    `json:"count"`
	} `json:"goroutines"`
	Runtime struct {
		Uptime     string `json:"uptime"`
		GoVersion  string `json:"go_version"`
		NumCPU     int    `json:"num_cpu"`
		GOMAXPROCS int    `json:"gomaxprocs"`
	} `json:"runtime"`
}

func (a *Application) processStatsHandler(w http.ResponseWriter, _ *http.Request) {
	snap := nerdstats.Snapshot(a.StartTime)

	response := processStatsResponse{Timestamp: time.Now()}

	response.Memory.HeapAlloc = format.Bytes(snap.HeapAlloc)
	response.Memory.HeapSys = format.Bytes(snap.HeapSys)
	response.Memory.HeapInuse = format.Bytes(snap.HeapInuse)
	response.Memory.StackInuse = format.Bytes(snap.StackInuse)
	response.Memory.TotalAlloc = format.Bytes(snap.TotalAlloc)
	response.Memory.MemoryPressure = snap.MemoryPressure()

	response.GarbageCollection.NumGC = snap.NumGC
	response.GarbageCollection.AvgGCPause = snap.AverageGCPause()

	response.Goroutines.Count = snap.NumGoroutines
	response.Goroutines.HealthStatus = snap.GoroutineHealth()

	response.Runtime.Uptime = format.Duration(snap.Uptime)
	response.Runtime.GoVersion = snap.GoVersion
	response.Runtime.NumCPU = snap.NumCPU
	response.Runtime.GOMAXPROCS = snap.GOMAXPROCS

	_ = util.WriteJSON(w, http.StatusOK, response)
}
