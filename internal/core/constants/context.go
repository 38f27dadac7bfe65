package constants

type contextKey string

const (
	ContextRequestIdKey   contextKey = "request_id"   // generated per request by the logging middleware
	ContextRequestTimeKey contextKey = "request_time" // start time, used for the access log latency
)
