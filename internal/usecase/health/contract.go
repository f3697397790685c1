package health

import "context"

// DatasetChecker reports whether the dashboard dataset is loaded.
type DatasetChecker interface {
	Ping(ctx context.Context) error
}
