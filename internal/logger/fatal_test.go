package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	original := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = original })
	return &code
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(original) })
	return &buf
}

func TestFatal(t *testing.T) {
	code := captureExit(t)
	buf := captureDefault(t)

	Fatal("Failed to load configuration", "error", "bad port")

	assert.Equal(t, 1, *code)
	record := lastRecord(t, buf)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "Failed to load configuration", record["msg"])
	assert.Equal(t, "bad port", record["error"])
}

func TestFatalf(t *testing.T) {
	code := captureExit(t)
	buf := captureDefault(t)

	Fatalf("Failed to initialise logger: %s", "permission denied")

	assert.Equal(t, 1, *code)
	assert.Equal(t, "Failed to initialise logger: permission denied", lastRecord(t, buf)["msg"])
}

func TestFatalWithLogger(t *testing.T) {
	code := captureExit(t)
	styled, buf := newBufferedPlain(t)

	FatalWithLogger(styled, "Failed to start application", "error", "address in use")

	assert.Equal(t, 1, *code)
	record := lastRecord(t, buf)
	assert.Equal(t, "Failed to start application", record["msg"])
	assert.Equal(t, "address in use", record["error"])
}
