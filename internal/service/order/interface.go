package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/types"
)

// Dispatch is the subset of the dispatch API the stage protocol needs.
type Dispatch interface {
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, target types.Stage) error
}
