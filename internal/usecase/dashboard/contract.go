package dashboard

import (
	"context"

	"github.com/kailas-cloud/carelens/internal/usecase/ingest"
)

// Loader fetches the raw dataset sources.
type Loader interface {
	Load(ctx context.Context) (ingest.Sources, error)
}
