package offer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/internal/service/geo"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/metrics"
)

// State of the offer protocol.
type State int

const (
	StateIdle State = iota
	StatePending
	StateAccepting
	StateRejecting
)

// Machine governs a single inbound order offer: countdown, manual
// accept/reject, auto-accept on expiry. At most one offer is pending at
// a time and every exit from PENDING cancels the countdown, so a stale
// timer can never fire after the offer was resolved.
type Machine struct {
	dispatch Dispatch
	log      logger.Logger

	deadline   int // countdown start, in seconds
	onAccepted func(ctx context.Context, order models.ActiveOrder)
	notify     func(models.Notice)

	mu           sync.Mutex
	state        State
	offer        *models.OrderOffer
	countdown    int
	pendingSince time.Time
	cancelTimer  context.CancelFunc
}

func NewMachine(dispatch Dispatch, deadlineSeconds int, log logger.Logger,
	onAccepted func(ctx context.Context, order models.ActiveOrder),
	notify func(models.Notice),
) *Machine {
	return &Machine{
		dispatch:   dispatch,
		log:        log,
		deadline:   deadlineSeconds,
		onAccepted: onAccepted,
		notify:     notify,
	}
}

// Snapshot returns a copy of the pending offer and the seconds left.
func (m *Machine) Snapshot() (*models.OrderOffer, int, State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offer == nil {
		return nil, 0, m.state
	}
	cp := *m.offer
	return &cp, m.countdown, m.state
}

// HandleAssigned admits a new offer. Only legal from IDLE, anything else
// is a protocol violation and the inbound offer is dropped.
func (m *Machine) HandleAssigned(ctx context.Context, offer models.OrderOffer) error {
	ctx = wrap.WithOfferID(ctx, offer.ID.String())

	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		metrics.RecordOffer("dropped")
		return wrap.Error(ctx, types.ErrProtocolViolation)
	}

	// Бэкенд иногда не присылает дистанцию — досчитываем сами.
	if offer.DistanceKm == 0 && offer.Pickup.Location.Valid() && offer.Dropoff.Location.Valid() {
		offer.DistanceKm = geo.DistanceKm(offer.Pickup.Location, offer.Dropoff.Location)
	}

	timerCtx, cancel := context.WithCancel(ctx)
	m.state = StatePending
	m.offer = &offer
	m.countdown = m.deadline
	m.pendingSince = time.Now()
	m.cancelTimer = cancel
	m.mu.Unlock()

	metrics.RecordOffer("received")
	m.log.Info(wrap.WithAction(ctx, types.ActionOfferReceived), "order offer received",
		"distance_km", offer.DistanceKm,
		"payment_method", string(offer.PaymentMethod),
	)

	go m.runCountdown(timerCtx, ctx)
	return nil
}

// runCountdown decrements once per second until cancelled or expired.
func (m *Machine) runCountdown(timerCtx, ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timerCtx.Done():
			return
		case <-ticker.C:
			if m.tick(ctx) {
				return
			}
		}
	}
}

// tick decrements the countdown. Reaching zero triggers the accept path:
// a courier who did not respond within the deadline is assumed willing.
// Returns true when the countdown is finished.
func (m *Machine) tick(ctx context.Context) bool {
	m.mu.Lock()
	if m.state != StatePending {
		m.mu.Unlock()
		return true
	}

	m.countdown--
	if m.countdown > 0 {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	m.log.Info(wrap.WithAction(ctx, types.ActionOfferExpired), "offer deadline reached, auto-accepting")
	metrics.RecordOffer("expired")

	if err := m.Accept(ctx); err != nil && !errors.Is(err, types.ErrOfferNotPending) {
		m.log.Error(wrap.WithAction(ctx, types.ActionOfferExpired), "auto-accept failed", err)
	}
	return true
}

// Accept resolves the pending offer through dispatch. A conflict (the
// order went to another courier) resolves the offer all the same: the
// courier gets a dismissible notice and returns to IDLE.
func (m *Machine) Accept(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePending {
		m.mu.Unlock()
		return types.ErrOfferNotPending
	}
	m.state = StateAccepting
	offer := *m.offer
	since := m.pendingSince
	m.stopCountdownLocked()
	m.mu.Unlock()

	ctx = wrap.WithOfferID(ctx, offer.ID.String())

	order, err := m.dispatch.AcceptOrder(ctx, offer.ID)

	metrics.OfferDecisionSeconds.Observe(time.Since(since).Seconds())

	if err != nil {
		m.resolve()
		metrics.RecordOffer("conflict")
		m.log.Warn(wrap.WithAction(ctx, types.ActionOfferConflict), "accept did not go through", "error", err.Error())
		m.notify(models.Notice{
			Kind:    types.NoticeOfferConflict,
			Message: "The order was assigned to another courier.",
		})
		return nil
	}

	metrics.RecordOffer("accepted")
	m.log.Info(wrap.WithAction(ctx, types.ActionOfferAccepted), "offer accepted")

	if order.Stage == "" {
		order.Stage = types.StageDriverAssigned
	}

	// The machine stays in ACCEPTING until the order is installed, so an
	// ORDER_ASSIGNED racing the install cannot open a second offer while
	// the stage tracker is still empty.
	m.onAccepted(ctx, *order)
	m.resolve()
	return nil
}

// resolve returns the machine to IDLE with no offer.
func (m *Machine) resolve() {
	m.mu.Lock()
	m.offer = nil
	m.state = StateIdle
	m.mu.Unlock()
}

// Reject declines the pending offer. The reject call is best-effort:
// a network failure is logged, never retried.
func (m *Machine) Reject(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StatePending {
		m.mu.Unlock()
		return types.ErrOfferNotPending
	}
	m.state = StateRejecting
	offer := *m.offer
	m.stopCountdownLocked()
	m.mu.Unlock()

	ctx = wrap.WithOfferID(ctx, offer.ID.String())

	if err := m.dispatch.RejectOrder(ctx, offer.ID); err != nil {
		m.log.Warn(wrap.WithAction(ctx, types.ActionOfferRejected), "reject request failed", "error", err.Error())
	}

	m.resolve()

	metrics.RecordOffer("rejected")
	m.log.Info(wrap.WithAction(ctx, types.ActionOfferRejected), "offer rejected")
	return nil
}

// stopCountdownLocked cancels the countdown timer. Callers hold m.mu.
func (m *Machine) stopCountdownLocked() {
	if m.cancelTimer != nil {
		m.cancelTimer()
		m.cancelTimer = nil
	}
}
