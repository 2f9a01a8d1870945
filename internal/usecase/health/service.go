package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the search index is down; queries fall back to the record store.
	Degraded Status = "degraded"
	// Unhealthy indicates the record store is down.
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

// Component names reported in Checks.
const (
	ComponentDatabase    = "database"
	ComponentSearchIndex = "search_index"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	database Pinger
	index    Pinger
}

// New creates a Service. index can be nil when search is not configured.
func New(database, index Pinger) *Service {
	return &Service{database: database, index: index}
}

// Check pings the record store and the search index.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentDatabase: probe(ctx, s.database),
	}
	if s.index != nil {
		checks[ComponentSearchIndex] = probe(ctx, s.index)
	}

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentSearchIndex] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
