package constants

const (
	// ollama-style upstream API
	PathOllamaTags = "/api/tags"
	PathOllamaShow = "/api/show"

	// our own surface
	PathIndex         = "/"
	PathHealth        = "/health"
	PathVersion       = "/version"
	PathFetch         = "/api/fetch"
	PathInternalStats = "/internal/stats"
	PathInternalProc  = "/internal/process"
	PathMetrics       = "/metrics"
)
