package discovery

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	OpListModels    = "list_models"
	OpDescribeModel = "describe_model"

	connectionFailedPrefix = "Connection failed: "
)

// InventoryError wraps a failed upstream call with enough context to log
// and classify it
type InventoryError struct {
	Err        error
	Server     string
	Operation  string
	StatusCode int
	Latency    time.Duration
}

func (e *InventoryError) Error() string {
	latency := e.Latency.Round(time.Millisecond)
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed for %s (status: %d, latency: %v): %v",
			e.Operation, e.Server, e.StatusCode, latency, e.Err)
	}
	return fmt.Sprintf("%s failed for %s (latency: %v): %v",
		e.Operation, e.Server, latency, e.Err)
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}

func NewInventoryError(server, operation string, statusCode int, latency time.Duration, err error) *InventoryError {
	return &InventoryError{
		Server:     server,
		Operation:  operation,
		StatusCode: statusCode,
		Latency:    latency,
		Err:        err,
	}
}

// ParseError indicates the body wasn't the JSON shape we expected
type ParseError struct {
	Err    error
	Format string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError indicates a transport failure: refused, dns, tls or timeout
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Reason is the transport failure without the method and url noise
// net/http wraps it in
func (e *NetworkError) Reason() string {
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}

// IsRecoverable reports whether retrying the call could help. Garbage
// bodies and 4xx won't fix themselves; network trouble and 5xx might.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var parseError *ParseError
	if errors.As(err, &parseError) {
		return false
	}

	var networkError *NetworkError
	if errors.As(err, &networkError) {
		return true
	}

	var invErr *InventoryError
	if errors.As(err, &invErr) {
		if invErr.StatusCode >= 400 && invErr.StatusCode < 500 {
			return false
		}
		if invErr.StatusCode >= 500 {
			return true
		}
		if invErr.Err != nil {
			return IsRecoverable(invErr.Err)
		}
	}

	return false
}

// DescribeFailure renders a listing failure the way it's shown to users,
// transport problems read "Connection failed: <reason>"
func DescribeFailure(err error) string {
	if err == nil {
		return ""
	}
	var networkError *NetworkError
	if errors.As(err, &networkError) {
		return connectionFailedPrefix + networkError.Reason()
	}
	return err.Error()
}
