package route

import (
	"context"

	"github.com/quickeats/courier-client/internal/domain/models"
)

// Provider is the external route geometry source.
// Implementations return types.ErrRouteUnavailable when no route exists.
type Provider interface {
	Route(ctx context.Context, start, end models.Location) (*models.RouteLeg, error)
}
