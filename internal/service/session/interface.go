package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
)

// Dispatch is the full dispatch-service surface the session consumes.
type Dispatch interface {
	AcceptOrder(ctx context.Context, offerID uuid.UUID) (*models.ActiveOrder, error)
	RejectOrder(ctx context.Context, offerID uuid.UUID) error
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, target types.Stage) error
	ActiveOrders(ctx context.Context) ([]models.ActiveOrder, error)
}
