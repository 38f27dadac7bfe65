package ports

import "time"

type StatsCollector interface {
	RecordRun(servers int, duration time.Duration)
	RecordServer(server string, success bool, models int, duration time.Duration)
	RecordModel(degraded bool)
	RecordSecurityViolation(violation SecurityViolation)
}

type FetchStats struct {
	TotalRuns        int64   `json:"total_runs"`
	ServersSucceeded int64   `json:"servers_succeeded"`
	ServersFailed    int64   `json:"servers_failed"`
	ModelsInspected  int64   `json:"models_inspected"`
	ModelsDegraded   int64   `json:"models_degraded"`
	AverageRunMs     int64   `json:"avg_run_ms"`
	ServerSuccessPct float64 `json:"server_success_percent"`
}

type ServerStats struct {
	Server         string    `json:"server"`
	LastSeen       time.Time `json:"last_seen"`
	Successes      int64     `json:"successes"`
	Failures       int64     `json:"failures"`
	ModelsReported int64     `json:"models_reported"`
	AverageLatency int64     `json:"avg_latency_ms"`
}

type SecurityStats struct {
	RateLimitViolations  int64 `json:"rate_limit_violations"`
	SizeLimitViolations  int64 `json:"size_limit_violations"`
	UniqueRateLimitedIPs int   `json:"unique_rate_limited_ips"`
}
