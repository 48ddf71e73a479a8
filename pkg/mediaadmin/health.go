package mediaadmin

import (
	"context"
	"time"
)

// CheckHealth issues one trivial round trip against the durable store.
// It is never retried internally; callers needing resilience compose it
// with the retry package explicitly.
func (s *service) CheckHealth(ctx context.Context) HealthStatus {
	start := time.Now()
	if err := s.repo.Ping(ctx); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		return HealthStatus{Healthy: false, Error: msg}
	}
	ms := time.Since(start).Milliseconds()
	return HealthStatus{Healthy: true, LatencyMS: &ms}
}
