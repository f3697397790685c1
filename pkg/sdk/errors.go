package carelens

import "github.com/kailas-cloud/carelens/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotLoaded     = domain.ErrNotLoaded
	ErrLoadFailed    = domain.ErrLoadFailed
	ErrInvalidTopN   = domain.ErrInvalidTopN
	ErrInvalidPatch  = domain.ErrInvalidPatch
	ErrUnknownMetric = domain.ErrUnknownMetric
)

// LoadError reports which dataset source failed to load.
type LoadError = domain.LoadError
