package order

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
)

type fakeDispatch struct {
	mu       sync.Mutex
	err      error
	advanced []types.Stage
}

func (f *fakeDispatch) AdvanceStatus(_ context.Context, _ uuid.UUID, target types.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advanced = append(f.advanced, target)
	return f.err
}

type harness struct {
	tracker  *Tracker
	dispatch *fakeDispatch

	mu      sync.Mutex
	changes []*models.ActiveOrder
	notices []models.Notice
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{dispatch: &fakeDispatch{}}
	h.tracker = NewTracker(h.dispatch, logger.InitLogger("test", logger.LevelError),
		func(_ context.Context, order *models.ActiveOrder) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.changes = append(h.changes, order)
		},
		func(n models.Notice) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.notices = append(h.notices, n)
		},
	)
	return h
}

func activeOrder(stage types.Stage) models.ActiveOrder {
	return models.ActiveOrder{
		ID:    uuid.New(),
		Stage: stage,
		Pickup: models.Place{
			Name:     "Plov House",
			Location: models.Location{Latitude: 43.24, Longitude: 76.89},
		},
		Dropoff: models.Place{
			Address:  "Abay 10",
			Location: models.Location{Latitude: 43.26, Longitude: 76.91},
		},
		Earnings: models.Earnings{NetEarning: 750, Subtotal: 4200},
	}
}

func TestAdvanceWalksTheSequence(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.tracker.Init(ctx, activeOrder(types.StageDriverAssigned))

	want := []types.Stage{types.StageReady, types.StagePickedUp, types.StageArrived}
	for _, stage := range want {
		require.NoError(t, h.tracker.Advance(ctx))
		snap, ok := h.tracker.Snapshot()
		require.True(t, ok)
		require.Equal(t, stage, snap.Stage)
	}
	require.Equal(t, want, h.dispatch.advanced)
}

// Issuing DELIVERED clears the snapshot before the server answers.
func TestDeliveredClearsImmediately(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.tracker.Init(ctx, activeOrder(types.StagePickedUp))

	require.NoError(t, h.tracker.Advance(ctx)) // -> ARRIVED
	require.NoError(t, h.tracker.Advance(ctx)) // -> DELIVERED, clears

	_, ok := h.tracker.Snapshot()
	require.False(t, ok, "snapshot must be gone after issuing DELIVERED")

	require.ErrorIs(t, h.tracker.Advance(ctx), types.ErrNoActiveOrder)
}

// A failed non-final advance keeps the optimistic stage and only
// surfaces a notice.
func TestAdvanceFailureNoRollback(t *testing.T) {
	h := newHarness(t)
	h.dispatch.err = types.ErrStatusAdvance
	ctx := context.Background()

	h.tracker.Init(ctx, activeOrder(types.StageDriverAssigned))

	require.ErrorIs(t, h.tracker.Advance(ctx), types.ErrStatusAdvance)

	snap, ok := h.tracker.Snapshot()
	require.True(t, ok)
	require.Equal(t, types.StageReady, snap.Stage, "optimistic stage must survive the failure")
	require.Len(t, h.notices, 1)
	require.Equal(t, types.NoticeAdvanceFailed, h.notices[0].Kind)
}

// A failed DELIVERED issuance still clears the snapshot and still
// surfaces the notice: the final edge is not exempt.
func TestDeliveredFailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.dispatch.err = types.ErrStatusAdvance
	ctx := context.Background()

	h.tracker.Init(ctx, activeOrder(types.StageArrived))

	require.ErrorIs(t, h.tracker.Advance(ctx), types.ErrStatusAdvance)

	_, ok := h.tracker.Snapshot()
	require.False(t, ok)
	require.Len(t, h.notices, 1)
	require.Equal(t, types.NoticeAdvanceFailed, h.notices[0].Kind)
}

// Push overwrite always wins, even when it goes backward.
func TestPushOverwriteBeatsLocalOptimism(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order := activeOrder(types.StageDriverAssigned)
	h.tracker.Init(ctx, order)
	require.NoError(t, h.tracker.Advance(ctx)) // -> READY
	require.NoError(t, h.tracker.Advance(ctx)) // -> PICKED_UP

	before := h.tracker.Version()
	require.NoError(t, h.tracker.ApplyPush(ctx, models.OrderStatusMessage{
		OrderID: order.ID,
		Stage:   types.StageReady, // сервер откатил назад
	}))

	snap, ok := h.tracker.Snapshot()
	require.True(t, ok)
	require.Equal(t, types.StageReady, snap.Stage)
	require.Greater(t, h.tracker.Version(), before)
}

func TestPushForOtherOrderIgnored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order := activeOrder(types.StageReady)
	h.tracker.Init(ctx, order)

	require.NoError(t, h.tracker.ApplyPush(ctx, models.OrderStatusMessage{
		OrderID: uuid.New(),
		Stage:   types.StageCancelled,
	}))

	snap, ok := h.tracker.Snapshot()
	require.True(t, ok)
	require.Equal(t, types.StageReady, snap.Stage)
}

func TestPushCancellationClears(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order := activeOrder(types.StagePickedUp)
	h.tracker.Init(ctx, order)

	require.NoError(t, h.tracker.ApplyPush(ctx, models.OrderStatusMessage{
		OrderID: order.ID,
		Stage:   types.StageCancelled,
	}))

	_, ok := h.tracker.Snapshot()
	require.False(t, ok, "terminal push must clear the snapshot")

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Nil(t, h.changes[len(h.changes)-1], "listeners must see the cleared state")
}

func TestPushUpdatesMutableFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order := activeOrder(types.StageReady)
	h.tracker.Init(ctx, order)

	loc := models.Location{Latitude: 43.25, Longitude: 76.90}
	earnings := models.Earnings{NetEarning: 800, Subtotal: 4500}
	require.NoError(t, h.tracker.ApplyPush(ctx, models.OrderStatusMessage{
		OrderID:        order.ID,
		Stage:          types.StagePickedUp,
		DriverLocation: &loc,
		Earnings:       &earnings,
	}))

	snap, _ := h.tracker.Snapshot()
	require.Equal(t, types.StagePickedUp, snap.Stage)
	require.Equal(t, loc, *snap.DriverLocation)
	require.Equal(t, earnings, snap.Earnings)
}
