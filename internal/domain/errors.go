package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrLoadFailed signals that a required dataset could not be fetched or parsed.
	ErrLoadFailed = errors.New("load failed")
	// ErrNotLoaded signals that the dataset has not finished loading yet.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrInvalidTopN signals a topN value outside the accepted range.
	ErrInvalidTopN = errors.New("invalid topN")
	// ErrUnknownMetric signals an unrecognized county metric name.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidPatch signals a malformed state update.
	ErrInvalidPatch = errors.New("invalid patch")
)

// Dataset source names used in load errors and metrics.
const (
	SourceCounties   = "counties"
	SourceHospitals  = "hospitals"
	SourceProcedures = "procedures"
	SourceGeography  = "geography"
)

// LoadError wraps ErrLoadFailed with the source that could not be loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLoadFailed.Error(), e.Source, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{ErrLoadFailed, e.Err} }

// NewLoadError creates a load error for the given source.
func NewLoadError(source string, err error) error {
	return &LoadError{Source: source, Err: err}
}
