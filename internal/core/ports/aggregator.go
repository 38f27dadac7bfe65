package ports

import (
	"context"

	"github.com/thushan/olla-explorer/internal/core/domain"
)

// ModelAggregator runs a full fetch over a set of raw server addresses.
// It never fails; per-server and per-model problems are reported inside the result.
type ModelAggregator interface {
	Aggregate(ctx context.Context, servers []string) *domain.AggregateResult
}
