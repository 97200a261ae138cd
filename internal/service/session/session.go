package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/internal/service/mapview"
	"github.com/quickeats/courier-client/internal/service/offer"
	"github.com/quickeats/courier-client/internal/service/order"
	"github.com/quickeats/courier-client/internal/service/route"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/metrics"
)

type Config struct {
	CourierID      string
	OfferDeadline  int // seconds
	RequestTimeout time.Duration
}

// Session is the single owner of the courier's mutable delivery state:
// the offer machine, the stage tracker and the route tracker. All
// mutation goes through its entry points; the rendering layer only ever
// sees value snapshots.
type Session struct {
	cfg      Config
	dispatch Dispatch
	log      logger.Logger

	offers  *offer.Machine
	orders  *order.Tracker
	routes  *route.Tracker
	view    *mapview.View
	notices chan models.Notice
}

func New(cfg Config, dispatch Dispatch, routes *route.Tracker, view *mapview.View, log logger.Logger) *Session {
	s := &Session{
		cfg:      cfg,
		dispatch: dispatch,
		log:      log,
		routes:   routes,
		view:     view,
		notices:  make(chan models.Notice, 8),
	}

	s.orders = order.NewTracker(dispatch, log, s.onOrderChange, s.pushNotice)
	s.offers = offer.NewMachine(dispatch, cfg.OfferDeadline, log, s.onOfferAccepted, s.pushNotice)

	return s
}

// Start rehydrates in-flight state from the server. A failed
// reconciliation is logged and the courier proceeds with no active
// order until the next reconnect.
func (s *Session) Start(ctx context.Context) {
	ctx = wrap.WithCourierID(ctx, s.cfg.CourierID)
	ctx = wrap.WithAction(ctx, types.ActionReconciliation)

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	orders, err := s.dispatch.ActiveOrders(callCtx)
	if err != nil {
		s.log.Error(ctx, "reconciliation failed", wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrReconciliation, err)))
		return
	}
	if len(orders) == 0 {
		s.log.Debug(ctx, "no in-flight order to recover")
		return
	}

	recovered := orders[0]
	s.orders.Init(ctx, recovered)
	s.pushNotice(models.Notice{
		Kind:    types.NoticeOrderRecovered,
		Message: "Resumed an in-progress delivery.",
	})
	s.log.Info(ctx, "recovered in-flight order", "stage", recovered.Stage.String())
}

// HandlePush is the push event router: it decodes the envelope and
// forwards it to the right protocol. Push delivery is assumed in-order
// per order id.
func (s *Session) HandlePush(ctx context.Context, msg models.PushMessage) error {
	ctx = wrap.WithCourierID(ctx, s.cfg.CourierID)

	err := s.routePush(ctx, msg)
	metrics.RecordPushMessage(msg.Type.String(), err)
	return err
}

func (s *Session) routePush(ctx context.Context, msg models.PushMessage) error {
	switch msg.Type {
	case types.EventOrderAssigned:
		var payload models.OrderAssignedMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return wrap.Error(ctx, fmt.Errorf("decode %s: %w", msg.Type, err))
		}

		// Второй оффер поверх активного заказа — нарушение протокола.
		if _, busy := s.orders.Snapshot(); busy {
			s.log.Warn(wrap.WithAction(ctx, types.ActionPushDropped),
				"ORDER_ASSIGNED while an order is active, dropped",
				"offer_id", payload.OrderID.String(),
			)
			return wrap.Error(ctx, types.ErrProtocolViolation)
		}

		return s.offers.HandleAssigned(ctx, payload.Offer())

	case types.EventOrderStatusChanged:
		var payload models.OrderStatusMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return wrap.Error(ctx, fmt.Errorf("decode %s: %w", msg.Type, err))
		}
		if !payload.Stage.Known() {
			return wrap.Error(ctx, fmt.Errorf("%w: unknown stage %q", types.ErrProtocolViolation, payload.Stage))
		}
		return s.orders.ApplyPush(ctx, payload)

	default:
		return wrap.Error(ctx, fmt.Errorf("%w: unknown push type %q", types.ErrProtocolViolation, msg.Type))
	}
}

/* ======================= user actions ======================= */

// AcceptOffer is the manual accept.
func (s *Session) AcceptOffer(ctx context.Context) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.offers.Accept(callCtx)
}

// RejectOffer is the manual reject.
func (s *Session) RejectOffer(ctx context.Context) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.offers.Reject(callCtx)
}

// AdvanceStage moves the active order one stage forward.
func (s *Session) AdvanceStage(ctx context.Context) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.orders.Advance(callCtx)
}

// UpdateLocation feeds a device location fix to the map.
func (s *Session) UpdateLocation(loc models.Location) {
	s.view.SetLocation(loc)
}

// LocationUnavailable reports loss of the device location stream.
func (s *Session) LocationUnavailable() {
	s.view.LocationUnavailable()
}

// RecenterToMe recenters the map on the courier.
func (s *Session) RecenterToMe() {
	s.view.RecenterToMe()
}

/* ======================= read surface ======================= */

// PendingOffer returns the pending offer and the seconds remaining.
func (s *Session) PendingOffer() (*models.OrderOffer, int, bool) {
	o, countdown, state := s.offers.Snapshot()
	return o, countdown, state == offer.StatePending
}

// ActiveOrder returns a copy of the active order snapshot.
func (s *Session) ActiveOrder() (*models.ActiveOrder, bool) {
	return s.orders.Snapshot()
}

// Frame samples the full render state for one draw pass.
func (s *Session) Frame(now time.Time) mapview.Frame {
	return s.view.Frame(now)
}

// Notices is the stream of transient user-facing notices.
func (s *Session) Notices() <-chan models.Notice {
	return s.notices
}

/* ======================= wiring ======================= */

func (s *Session) onOfferAccepted(ctx context.Context, accepted models.ActiveOrder) {
	s.orders.Init(ctx, accepted)
}

// onOrderChange keeps the route tracker and the map in sync with the
// snapshot. The route tracker refetches only on identity changes.
func (s *Session) onOrderChange(ctx context.Context, snapshot *models.ActiveOrder) {
	if snapshot == nil {
		s.routes.Clear()
		s.view.SetOrder(nil)
		return
	}
	// The fetch must outlive the user action that triggered it: the
	// accept call cancels its context as soon as it returns.
	s.routes.Refresh(context.WithoutCancel(ctx), *snapshot)
	s.view.SetOrder(snapshot)
}

// pushNotice never blocks: if the UI is not draining, the oldest notice
// is dropped.
func (s *Session) pushNotice(n models.Notice) {
	select {
	case s.notices <- n:
	default:
		select {
		case <-s.notices:
		default:
		}
		select {
		case s.notices <- n:
		default:
		}
	}
}

func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.RequestTimeout)
}
