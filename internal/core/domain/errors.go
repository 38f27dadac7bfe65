package domain

import "fmt"

type ConfigValidationError struct {
	Value  interface{}
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}

func NewConfigValidationError(field string, value interface{}, reason string) *ConfigValidationError {
	return &ConfigValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// RequestValidationError is returned when a fetch request can't be run at
// all, the message is shown to the caller as-is.
type RequestValidationError struct {
	Message string
}

func (e *RequestValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidPayload  = &RequestValidationError{Message: "Invalid JSON payload"}
	ErrNoServers       = &RequestValidationError{Message: "No servers provided"}
	ErrNoValidServers  = &RequestValidationError{Message: "No valid servers provided"}
	ErrPayloadTooLarge = &RequestValidationError{Message: "Request body too large"}
)
