package health

import "context"

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means every component check passed.
	Healthy Status = "ok"
	// Degraded means some checks failed.
	Degraded Status = "degraded"
	// Unhealthy means every check failed.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates component check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs component health checks.
type Service struct {
	store    StorePinger
	embedder EmbedderChecker
}

// New creates a Service. embedder can be nil when the provider check is
// disabled.
func New(store StorePinger, embedder EmbedderChecker) *Service {
	return &Service{store: store, embedder: embedder}
}

// Check probes every component and aggregates the outcome. The store
// alone failing degrades the service; everything failing marks it
// unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["store"] = CheckOK
	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
	}

	if s.embedder != nil {
		checks["embeddings"] = CheckOK
		if err := s.embedder.HealthCheck(ctx); err != nil {
			checks["embeddings"] = CheckError
		}
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
