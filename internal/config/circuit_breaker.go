package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker names used across the service.
const (
	BreakerRevocation = "Redis-Revocation"
	BreakerAMQP       = "AMQP-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with the standard settings for the
// named dependency.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration
	switch name {
	case BreakerRevocation:
		timeout = 5 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			}
		},
	})
}
