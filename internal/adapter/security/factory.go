package security

import (
	"net/http"

	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
)

type Adapters struct {
	RateLimit      *RateLimitValidator
	SizeValidation *SizeValidator
	Metrics        *MetricsAdapter
}

// NewSecurityAdapters wires the validators to report into the stats collector.
func NewSecurityAdapters(cfg *config.Config, statsCollector ports.StatsCollector, log logger.StyledLogger) *Adapters {
	metricsAdapter := NewSecurityMetricsAdapter(statsCollector, log)

	return &Adapters{
		RateLimit:      NewRateLimitValidator(cfg.Server.RateLimits, metricsAdapter, log),
		SizeValidation: NewSizeValidator(cfg.Server.RequestLimits, metricsAdapter, log),
		Metrics:        metricsAdapter,
	}
}

func (sa *Adapters) Validators() []ports.SecurityValidator {
	return []ports.SecurityValidator{sa.RateLimit, sa.SizeValidation}
}

func (sa *Adapters) Stop() {
	if sa.RateLimit != nil {
		sa.RateLimit.Stop()
	}
}

// CreateChainMiddleware rate limits first, a caller already over their
// budget doesn't get to make us read their body.
func (sa *Adapters) CreateChainMiddleware() func(http.Handler) http.Handler {
	rateLimit := passthrough
	if sa.RateLimit != nil {
		rateLimit = sa.RateLimit.CreateMiddleware()
	}
	sizeLimit := passthrough
	if sa.SizeValidation != nil {
		sizeLimit = sa.SizeValidation.CreateMiddleware()
	}

	return func(next http.Handler) http.Handler {
		return rateLimit(sizeLimit(next))
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
