package logger

import (
	"fmt"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/thushan/olla-explorer/theme"
)

// PrettyStyledLogger implements StyledLogger with pterm formatting
type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, theme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) { sl.logger.Debug(msg, args...) }
func (sl *PrettyStyledLogger) Info(msg string, args ...any)  { sl.logger.Info(msg, args...) }
func (sl *PrettyStyledLogger) Warn(msg string, args ...any)  { sl.logger.Warn(msg, args...) }
func (sl *PrettyStyledLogger) Error(msg string, args ...any) { sl.logger.Error(msg, args...) }

func (sl *PrettyStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Counts.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithServer(msg string, server string, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s %s", msg, sl.Theme.Server.Sprint(server)), args...)
}

func (sl *PrettyStyledLogger) WarnWithServer(msg string, server string, args ...any) {
	sl.logger.Warn(fmt.Sprintf("%s %s", msg, sl.Theme.Server.Sprint(server)), args...)
}

func (sl *PrettyStyledLogger) ErrorWithServer(msg string, server string, args ...any) {
	sl.logger.Error(fmt.Sprintf("%s %s", msg, sl.Theme.Server.Sprint(server)), args...)
}

func (sl *PrettyStyledLogger) WarnWithModel(msg string, server string, model string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s on %s", msg, sl.Theme.Model.Sprint(model), sl.Theme.Server.Sprint(server))
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithNumbers(msg string, numbers ...int64) {
	formatted := make([]string, 0, len(numbers))
	for _, num := range numbers {
		formatted = append(formatted, sl.Theme.Numbers.Sprint(num))
	}
	sl.logger.Info(fmt.Sprintf(msg, toInterfaceSlice(formatted)...))
}

func (sl *PrettyStyledLogger) InfoWithOutcome(msg string, server string, success bool, args ...any) {
	statusColour, statusText := sl.Theme.Bad, "failed"
	if success {
		statusColour, statusText = sl.Theme.Good, "ok"
	}
	styledMsg := fmt.Sprintf("%s %s [ %s ]", msg, sl.Theme.Server.Sprint(server), pterm.Style{statusColour}.Sprint(statusText))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

func (sl *PrettyStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}
