package order

import (
	"context"
	"sync"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/metrics"
)

// Tracker owns the single ActiveOrder snapshot. Local advances move the
// stage forward one step at a time; a push overwrite replaces the whole
// snapshot and always wins, even when it appears to go backward —
// local state is a hint, the server is the authority.
type Tracker struct {
	dispatch Dispatch
	log      logger.Logger

	onChange func(ctx context.Context, order *models.ActiveOrder)
	notify   func(models.Notice)

	mu      sync.Mutex
	order   *models.ActiveOrder
	version uint64
}

func NewTracker(dispatch Dispatch, log logger.Logger,
	onChange func(ctx context.Context, order *models.ActiveOrder),
	notify func(models.Notice),
) *Tracker {
	return &Tracker{
		dispatch: dispatch,
		log:      log,
		onChange: onChange,
		notify:   notify,
	}
}

// Init installs the snapshot from an accept response or a
// reconciliation fetch.
func (t *Tracker) Init(ctx context.Context, order models.ActiveOrder) {
	ctx = wrap.WithOrderID(ctx, order.ID.String())

	t.mu.Lock()
	cp := order
	t.order = &cp
	t.version++
	t.mu.Unlock()

	metrics.ActiveOrderGauge.Set(1)
	t.log.Info(ctx, "active order installed", "stage", order.Stage.String())
	t.emit(ctx)
}

// Snapshot returns a copy of the current order, if any.
func (t *Tracker) Snapshot() (*models.ActiveOrder, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.order == nil {
		return nil, false
	}
	cp := *t.order
	return &cp, true
}

// Version returns the snapshot version. Every local advance and push
// overwrite bumps it.
func (t *Tracker) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Advance moves the order to its single allowed next stage and issues
// the status update for that edge. The local stage is set before the
// request and is NOT rolled back on failure — the courier only gets a
// notice. Issuing DELIVERED clears the snapshot immediately, without
// waiting for the server (optimistic-and-discard).
func (t *Tracker) Advance(ctx context.Context) error {
	t.mu.Lock()
	if t.order == nil {
		t.mu.Unlock()
		return types.ErrNoActiveOrder
	}

	next, ok := t.order.Stage.Next()
	if !ok {
		t.mu.Unlock()
		return types.ErrOrderFinished
	}

	orderID := t.order.ID
	t.order.Stage = next
	t.version++

	final := next == types.StageDelivered
	if final {
		t.order = nil
	}
	t.mu.Unlock()

	ctx = wrap.WithOrderID(ctx, orderID.String())
	ctx = wrap.WithAction(ctx, types.ActionStageAdvanced)

	if final {
		metrics.ActiveOrderGauge.Set(0)
		t.log.Info(wrap.WithAction(ctx, types.ActionOrderCleared), "order delivered, snapshot cleared")
	}
	t.emit(ctx)

	err := t.dispatch.AdvanceStatus(ctx, orderID, next)
	metrics.RecordStageAdvance(next.String(), err)

	if err != nil {
		// Локальную стадию намеренно не откатываем — см. поведение сервера.
		t.log.Warn(ctx, "status advance failed", "stage", next.String(), "error", err.Error())
		t.notify(models.Notice{
			Kind:    types.NoticeAdvanceFailed,
			Message: "Could not update the order status. Check your connection.",
		})
		return wrap.Error(ctx, types.ErrStatusAdvance)
	}

	t.log.Info(ctx, "stage advanced", "stage", next.String())
	return nil
}

// ApplyPush overwrites the snapshot with server-provided values. A push
// for a different order id than the active one is ignored.
func (t *Tracker) ApplyPush(ctx context.Context, msg models.OrderStatusMessage) error {
	ctx = wrap.WithOrderID(ctx, msg.OrderID.String())
	ctx = wrap.WithAction(ctx, types.ActionStageOverwrite)

	t.mu.Lock()
	if t.order == nil || t.order.ID != msg.OrderID {
		t.mu.Unlock()
		t.log.Debug(ctx, "status push for a different order, ignored")
		return nil
	}

	t.order.Stage = msg.Stage
	if msg.DriverLocation != nil {
		t.order.DriverLocation = msg.DriverLocation
	}
	if msg.Pickup != nil {
		t.order.Pickup = *msg.Pickup
	}
	if msg.Dropoff != nil {
		t.order.Dropoff = *msg.Dropoff
	}
	if msg.Earnings != nil {
		t.order.Earnings = *msg.Earnings
	}
	t.version++

	terminal := msg.Stage.Terminal()
	if terminal {
		t.order = nil
	}
	t.mu.Unlock()

	t.log.Info(ctx, "stage overwritten by push", "stage", msg.Stage.String())

	if terminal {
		metrics.ActiveOrderGauge.Set(0)
		t.log.Info(wrap.WithAction(ctx, types.ActionOrderCleared), "order reached terminal stage", "stage", msg.Stage.String())
	}
	t.emit(ctx)
	return nil
}

// emit hands the current snapshot (nil when cleared) to the session.
func (t *Tracker) emit(ctx context.Context) {
	if t.onChange == nil {
		return
	}
	snap, ok := t.Snapshot()
	if !ok {
		t.onChange(ctx, nil)
		return
	}
	t.onChange(ctx, snap)
}
