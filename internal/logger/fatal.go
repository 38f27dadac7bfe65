package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// exit is swapped out by tests
var exit = os.Exit

// Fatal reports a startup failure through the default slog logger and exits,
// it's for failures before the styled logger exists (bad config, log dir)
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	exit(1)
}

func Fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	exit(1)
}

// FatalWithLogger is Fatal once the styled logger is up, so the failure also
// reaches the rotated log file
func FatalWithLogger(styled StyledLogger, msg string, args ...any) {
	styled.Error(msg, args...)
	exit(1)
}
