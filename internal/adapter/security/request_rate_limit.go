package security

/*
	RateLimitValidator guards /api/fetch with token buckets, an optional global
	bucket plus one per client IP. A single fetch can fan out to dozens of
	upstream calls so we'd rather turn a caller away than hammer the fleet.

	Per-IP buckets live in an xsync map and are swept by a background ticker
	once they've been idle for idleLimiterTTL.

	References:
	- https://pkg.go.dev/golang.org/x/time/rate
	- https://datatracker.ietf.org/doc/draft-ietf-httpapi-ratelimit-headers/
*/

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"

	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
)

const (
	idleLimiterTTL    = 10 * time.Minute
	rateLimitedReason = "Rate limit exceeded"
	rateLimitedBody   = "Too many requests"

	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

type RateLimitValidator struct {
	recorder violationRecorder
	logger   logger.StyledLogger

	globalLimiter *rate.Limiter
	ipLimiters    *xsync.Map[string, *ipLimiter]
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	trustedCIDRs  []*net.IPNet

	perIPRequestsPerMinute  int
	globalRequestsPerMinute int
	burstSize               int
	stopOnce                sync.Once
	trustProxyHeaders       bool
}

type ipLimiter struct {
	limiter     *rate.Limiter
	lastAccess  time.Time
	windowStart time.Time
	used        int
	mu          sync.Mutex
}

type violationRecorder interface {
	RecordViolation(ctx context.Context, violation ports.SecurityViolation)
}

func NewRateLimitValidator(limits config.ServerRateLimits, recorder violationRecorder, log logger.StyledLogger) *RateLimitValidator {
	burst := limits.BurstSize
	if burst <= 0 {
		burst = 1
	}

	rl := &RateLimitValidator{
		perIPRequestsPerMinute:  limits.PerIPRequestsPerMinute,
		globalRequestsPerMinute: limits.GlobalRequestsPerMinute,
		burstSize:               burst,
		trustProxyHeaders:       limits.TrustProxyHeaders,
		trustedCIDRs:            limits.TrustedProxyCIDRsParsed,
		recorder:                recorder,
		logger:                  log,
		ipLimiters:              xsync.NewMap[string, *ipLimiter](),
		stopCleanup:             make(chan struct{}),
	}

	if limits.GlobalRequestsPerMinute > 0 {
		rl.globalLimiter = rate.NewLimiter(perMinute(limits.GlobalRequestsPerMinute), burst)
	}

	if limits.CleanupInterval > 0 {
		rl.cleanupTicker = time.NewTicker(limits.CleanupInterval)
		go rl.cleanupRoutine()
	}

	return rl
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

func (rl *RateLimitValidator) Name() string {
	return constants.ViolationRateLimit
}

// Validate takes a token from the global bucket (when configured) and then
// from the caller's own bucket. The two are independent, a zero per-IP limit
// only turns off the per-client bucket.
func (rl *RateLimitValidator) Validate(ctx context.Context, req ports.SecurityRequest) (ports.SecurityResult, error) {
	now := time.Now()

	if rl.globalLimiter != nil {
		reservation := rl.globalLimiter.ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
			reservation.CancelAt(now)
			return ports.SecurityResult{
				Allowed:    false,
				RetryAfter: retryAfterSeconds(delay),
				RateLimit:  rl.reportedLimit(),
				ResetTime:  now.Add(time.Minute),
				Reason:     rateLimitedReason,
			}, nil
		}
	}

	limit := rl.perIPRequestsPerMinute
	if limit <= 0 {
		return ports.SecurityResult{Allowed: true, ResetTime: now.Add(time.Minute)}, nil
	}

	return rl.checkIPLimit(req.ClientID, limit, now), nil
}

// reportedLimit is the per-client limit when there is one, otherwise the
// global one that actually applies
func (rl *RateLimitValidator) reportedLimit() int {
	if rl.perIPRequestsPerMinute > 0 {
		return rl.perIPRequestsPerMinute
	}
	return rl.globalRequestsPerMinute
}

func (rl *RateLimitValidator) checkIPLimit(clientIP string, limit int, now time.Time) ports.SecurityResult {
	info := rl.limiterFor(clientIP, limit, now)

	info.mu.Lock()
	defer info.mu.Unlock()

	info.lastAccess = now
	if now.Sub(info.windowStart) >= time.Minute {
		info.windowStart = now
		info.used = 0
	}

	reservation := info.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		return ports.SecurityResult{
			Allowed:    false,
			RetryAfter: retryAfterSeconds(delay),
			RateLimit:  limit,
			Remaining:  remaining(limit, info.used),
			ResetTime:  info.windowStart.Add(time.Minute),
			Reason:     rateLimitedReason,
		}
	}

	info.used++
	return ports.SecurityResult{
		Allowed:   true,
		RateLimit: limit,
		Remaining: remaining(limit, info.used),
		ResetTime: info.windowStart.Add(time.Minute),
	}
}

func (rl *RateLimitValidator) limiterFor(clientIP string, limit int, now time.Time) *ipLimiter {
	info, _ := rl.ipLimiters.LoadOrCompute(clientIP, func() (*ipLimiter, bool) {
		return &ipLimiter{
			limiter:     rate.NewLimiter(perMinute(limit), rl.burstSize),
			lastAccess:  now,
			windowStart: now,
		}, false
	})
	return info
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

func retryAfterSeconds(delay time.Duration) int {
	if delay <= 0 {
		return 1
	}
	return int(delay.Seconds()) + 1
}

func (rl *RateLimitValidator) cleanupRoutine() {
	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-rl.cleanupTicker.C:
			rl.cleanupIdleLimiters(time.Now())
		}
	}
}

func (rl *RateLimitValidator) cleanupIdleLimiters(now time.Time) {
	cutoff := now.Add(-idleLimiterTTL)

	rl.ipLimiters.Range(func(ip string, info *ipLimiter) bool {
		info.mu.Lock()
		idle := info.lastAccess.Before(cutoff)
		info.mu.Unlock()

		if idle {
			rl.ipLimiters.Delete(ip)
		}
		return true
	})
}

func (rl *RateLimitValidator) TrackedClients() int {
	return rl.ipLimiters.Size()
}

func (rl *RateLimitValidator) Stop() {
	rl.stopOnce.Do(func() {
		if rl.cleanupTicker != nil {
			rl.cleanupTicker.Stop()
		}
		close(rl.stopCleanup)
	})
}

func (rl *RateLimitValidator) CreateMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := util.GetClientIP(r, rl.trustProxyHeaders, rl.trustedCIDRs)

			result, err := rl.Validate(r.Context(), ports.SecurityRequest{
				ClientID: clientIP,
				Endpoint: r.URL.Path,
				Method:   r.Method,
				Headers:  r.Header,
			})
			if err != nil {
				util.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if result.RateLimit > 0 {
				w.Header().Set(HeaderRateLimit, strconv.Itoa(result.RateLimit))
				w.Header().Set(HeaderRateRemaining, strconv.Itoa(result.Remaining))
				w.Header().Set(HeaderRateReset, strconv.FormatInt(result.ResetTime.Unix(), 10))
			}

			if !result.Allowed {
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(result.RetryAfter))

				if rl.recorder != nil {
					rl.recorder.RecordViolation(r.Context(), ports.SecurityViolation{
						ClientID:      clientIP,
						ViolationType: constants.ViolationRateLimit,
						Endpoint:      r.URL.Path,
						Timestamp:     time.Now(),
					})
				}

				rl.logger.Warn("Rate limit exceeded",
					"client_ip", clientIP,
					"method", r.Method,
					"path", r.URL.Path,
					"limit", result.RateLimit,
					"retry_after", result.RetryAfter)

				util.WriteJSONError(w, http.StatusTooManyRequests, rateLimitedBody)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
