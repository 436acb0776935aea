package server

import (
	"context"

	"gamelib-service/internal/enricher"
)

// Enricher defines the minimal enrichment loop behavior needed by the server.
type Enricher interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() enricher.Status
}
