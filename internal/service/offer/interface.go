package offer

import (
	"context"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/models"
)

// Dispatch is the subset of the dispatch API the offer protocol needs.
// AcceptOrder returns types.ErrOfferConflict when another courier won
// the order first.
type Dispatch interface {
	AcceptOrder(ctx context.Context, offerID uuid.UUID) (*models.ActiveOrder, error)
	RejectOrder(ctx context.Context, offerID uuid.UUID) error
}
