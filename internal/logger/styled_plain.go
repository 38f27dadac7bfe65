package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// PlainStyledLogger implements StyledLogger without any formatting
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{logger: logger}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) { sl.logger.Debug(msg, args...) }
func (sl *PlainStyledLogger) Info(msg string, args ...any)  { sl.logger.Info(msg, args...) }
func (sl *PlainStyledLogger) Warn(msg string, args ...any)  { sl.logger.Warn(msg, args...) }
func (sl *PlainStyledLogger) Error(msg string, args ...any) { sl.logger.Error(msg, args...) }

func (sl *PlainStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s (%d)", msg, count), args...)
}

func (sl *PlainStyledLogger) InfoWithServer(msg string, server string, args ...any) {
	sl.logger.Info(msg+" "+server, args...)
}

func (sl *PlainStyledLogger) WarnWithServer(msg string, server string, args ...any) {
	sl.logger.Warn(msg+" "+server, args...)
}

func (sl *PlainStyledLogger) ErrorWithServer(msg string, server string, args ...any) {
	sl.logger.Error(msg+" "+server, args...)
}

func (sl *PlainStyledLogger) WarnWithModel(msg string, server string, model string, args ...any) {
	sl.logger.Warn(fmt.Sprintf("%s %s on %s", msg, model, server), args...)
}

func (sl *PlainStyledLogger) InfoWithNumbers(msg string, numbers ...int64) {
	formatted := make([]string, 0, len(numbers))
	for _, num := range numbers {
		formatted = append(formatted, strconv.FormatInt(num, 10))
	}
	sl.logger.Info(fmt.Sprintf(msg, toInterfaceSlice(formatted)...))
}

func (sl *PlainStyledLogger) InfoWithOutcome(msg string, server string, success bool, args ...any) {
	status := "failed"
	if success {
		status = "ok"
	}
	sl.logger.Info(fmt.Sprintf("%s %s [%s]", msg, server, status), args...)
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{logger: sl.logger.With(args...)}
}

func (sl *PlainStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}
