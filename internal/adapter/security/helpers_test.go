package security

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
)

func createTestLogger() logger.StyledLogger {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return logger.NewPlainStyledLogger(log)
}

type recordingRecorder struct {
	violations []ports.SecurityViolation
	mu         sync.Mutex
}

func (r *recordingRecorder) RecordViolation(_ context.Context, v ports.SecurityViolation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.violations = append(r.violations, v)
}

func (r *recordingRecorder) recorded() []ports.SecurityViolation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.SecurityViolation(nil), r.violations...)
}
