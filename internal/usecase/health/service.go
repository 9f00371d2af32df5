package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the upstream answered.
	Healthy Status = "ok"
	// Unhealthy indicates the upstream check failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// CheckFirestore is the name of the upstream check.
const CheckFirestore = "firestore"

const defaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service checks the Firestore endpoint.
type Service struct {
	upstream Pinger
	timeout  time.Duration
}

// New creates a Service that checks the Firestore endpoint.
func New(upstream Pinger) *Service {
	return &Service{upstream: upstream, timeout: defaultTimeout}
}

// WithTimeout bounds the upstream check.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings the upstream within the configured timeout.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.upstream.Ping(ctx); err != nil {
		return Report{Status: Unhealthy, Checks: map[string]CheckResult{CheckFirestore: CheckError}}
	}
	return Report{Status: Healthy, Checks: map[string]CheckResult{CheckFirestore: CheckOK}}
}
