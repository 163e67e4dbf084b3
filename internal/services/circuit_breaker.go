package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// NewUpstreamBreaker builds the circuit breaker guarding calls to the
// fantasy API. The trip threshold stays well above a single failure so a
// one-off timeout never blocks the next request's retry.
func NewUpstreamBreaker(timeout time.Duration, logger logrus.FieldLogger) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        "fpl-api",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}
