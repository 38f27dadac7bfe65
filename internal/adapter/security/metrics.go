package security

import (
	"context"

	"github.com/docker/go-units"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
)

// anything this big hitting a json endpoint is worth a closer look
const suspiciousBodySize = 50 * units.MiB

type MetricsAdapter struct {
	statsCollector ports.StatsCollector
	logger         logger.StyledLogger
}

func NewSecurityMetricsAdapter(statsCollector ports.StatsCollector, log logger.StyledLogger) *MetricsAdapter {
	return &MetricsAdapter{
		statsCollector: statsCollector,
		logger:         log,
	}
}

func (sma *MetricsAdapter) RecordViolation(_ context.Context, violation ports.SecurityViolation) {
	if sma.statsCollector != nil {
		sma.statsCollector.RecordSecurityViolation(violation)
	}

	if violation.ViolationType == constants.ViolationSizeLimit && violation.Size > suspiciousBodySize {
		sma.logger.Warn("Large request blocked",
			"client_id", violation.ClientID,
			"size", units.BytesSize(float64(violation.Size)),
			"endpoint", violation.Endpoint)
	}
}
