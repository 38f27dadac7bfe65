package util

import (
	"math"
	"math/rand"
	"time"
)

// CalculateExponentialBackoff returns baseDelay * 2^(attempt-1) capped at
// maxDelay, spread by +/- jitterPercent/2 when jitterPercent > 0.
// Attempt 0 (or less) means no wait at all.
func CalculateExponentialBackoff(attempt int, baseDelay, maxDelay time.Duration, jitterPercent float64) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}

	backoff := float64(baseDelay) * math.Pow(2, float64(attempt-1))
	if maxDelay > 0 && backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	if jitterPercent > 0 {
		backoff += backoff * jitterPercent * (rand.Float64() - 0.5)
	}

	return time.Duration(backoff)
}
