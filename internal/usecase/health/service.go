package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates total failure.
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

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Version string
}

// Service coordinates health checks.
type Service struct {
	dataset DatasetChecker
	version string
}

// New creates a Service.
func New(dataset DatasetChecker, version string) *Service {
	return &Service{dataset: dataset, version: version}
}

// Check runs health checks against all components. A missing dataset is
// unhealthy: every view endpoint would answer not_loaded.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"dataset": CheckOK}

	status := Healthy
	if err := s.dataset.Ping(ctx); err != nil {
		checks["dataset"] = CheckError
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Version: s.version}
}
