package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/ports"
)

type countingStats struct {
	rate, size int
}

func (c *countingStats) RecordRun(int, time.Duration)                  {}
func (c *countingStats) RecordServer(string, bool, int, time.Duration) {}
func (c *countingStats) RecordModel(bool)                              {}
func (c *countingStats) RecordSecurityViolation(v ports.SecurityViolation) {
	switch v.ViolationType {
	case constants.ViolationRateLimit:
		c.rate++
	case constants.ViolationSizeLimit:
		c.size++
	}
}

func TestNewSecurityAdapters_ChainOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.RateLimits.PerIPRequestsPerMinute = 60
	cfg.Server.RateLimits.BurstSize = 1
	cfg.Server.RateLimits.CleanupInterval = 0
	cfg.Server.RequestLimits.MaxBodySize = 8

	stats := &countingStats{}
	adapters := NewSecurityAdapters(cfg, stats, createTestLogger())
	t.Cleanup(adapters.Stop)

	require.Len(t, adapters.Validators(), 2)

	handler := adapters.CreateChainMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(strings.Repeat("x", 32)))
		req.RemoteAddr = "10.0.0.9:5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusRequestEntityTooLarge, send())
	assert.Equal(t, http.StatusTooManyRequests, send(), "the rate limiter runs before the size check")
	assert.Equal(t, 1, stats.rate)
	assert.Equal(t, 1, stats.size)
}

func TestAdapters_StopWithoutRateLimiter(t *testing.T) {
	adapters := &Adapters{}
	assert.NotPanics(t, adapters.Stop)

	handler := adapters.CreateChainMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
