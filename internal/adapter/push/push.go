package push

import (
	"context"

	"github.com/quickeats/courier-client/internal/domain/models"
)

// Handler consumes one decoded push envelope.
type Handler func(ctx context.Context, msg models.PushMessage) error

// Channel is the per-courier push channel: at-least-once, in-order per
// order id, with a subscribe/close lifecycle tied to connectivity.
type Channel interface {
	Subscribe(ctx context.Context, handler Handler) error
	Close(ctx context.Context) error
}
