package logger

import "log/slog"

// StyledLogger is what the rest of the explorer logs through. The pretty
// variant colours server names and counts for a terminal, the plain one
// keeps messages grep-friendly for JSON output and tests.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithServer(msg string, server string, args ...any)
	WarnWithServer(msg string, server string, args ...any)
	ErrorWithServer(msg string, server string, args ...any)
	WarnWithModel(msg string, server string, model string, args ...any)
	InfoWithNumbers(msg string, numbers ...int64)
	InfoWithOutcome(msg string, server string, success bool, args ...any)

	GetUnderlying() *slog.Logger
	With(args ...any) StyledLogger
	WithRequestID(requestID string) StyledLogger
}

func toInterfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
