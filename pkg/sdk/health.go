package carelens

import (
	"context"

	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
)

// HealthStatus represents the aggregated session health.
type HealthStatus struct {
	Status string            // "ok", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health reports whether the dataset is loaded.
func (d *Dashboard) Health(ctx context.Context) HealthStatus {
	report := d.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
