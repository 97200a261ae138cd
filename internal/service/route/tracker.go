package route

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/metrics"
)

// Legs holds the two routed segments. A nil leg means the provider gave
// nothing and the rendered line falls back to the straight segment.
type Legs struct {
	Driver   *models.RouteLeg // courier → pickup
	Delivery *models.RouteLeg // pickup → dropoff
}

// State is a read-only sample of the route for one render pass.
type State struct {
	OrderID  uuid.UUID
	Origin   models.Location
	Pickup   models.Location
	Dropoff  models.Location
	Legs     Legs
	Progress float64
	Active   bool
}

// Tracker owns the route geometry for the current active order.
// Legs are refetched only when the order's endpoint identity changes,
// never on location ticks. Late results for a superseded order are
// discarded by epoch.
type Tracker struct {
	provider Provider
	log      logger.Logger
	duration time.Duration

	mu      sync.Mutex
	epoch   uint64
	orderID uuid.UUID
	origin  models.Location
	pickup  models.Location
	dropoff models.Location
	legs    Legs
	anim    Animation
	active  bool

	now func() time.Time
	wg  sync.WaitGroup
}

func NewTracker(provider Provider, animDuration time.Duration, log logger.Logger) *Tracker {
	return &Tracker{
		provider: provider,
		log:      log,
		duration: animDuration,
		now:      time.Now,
	}
}

// Refresh points the tracker at the given order snapshot. A no-op when
// the order id and all three endpoints are unchanged.
func (t *Tracker) Refresh(ctx context.Context, order models.ActiveOrder) {
	var origin models.Location
	if order.DriverLocation != nil {
		origin = *order.DriverLocation
	}
	pickup := order.Pickup.Location
	dropoff := order.Dropoff.Location

	t.mu.Lock()
	if t.active && t.orderID == order.ID &&
		t.origin.SamePoint(origin) && t.pickup.SamePoint(pickup) && t.dropoff.SamePoint(dropoff) {
		t.mu.Unlock()
		return
	}

	t.epoch++
	epoch := t.epoch
	t.orderID = order.ID
	t.origin = origin
	t.pickup = pickup
	t.dropoff = dropoff
	t.legs = Legs{} // straight-line fallback until the fetch lands
	t.anim = NewAnimation(t.now(), t.duration)
	t.active = true
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.fetch(ctx, epoch, origin, pickup, dropoff)
	}()
}

// Clear drops all route state. Called when the order reaches a terminal stage.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.epoch++ // invalidates any in-flight fetch
	t.active = false
	t.legs = Legs{}
	t.orderID = uuid.Nil
}

// State samples the tracker at the given instant.
func (t *Tracker) State(now time.Time) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return State{}
	}
	return State{
		OrderID:  t.orderID,
		Origin:   t.origin,
		Pickup:   t.pickup,
		Dropoff:  t.dropoff,
		Legs:     t.legs,
		Progress: t.anim.Progress(now),
		Active:   true,
	}
}

// Wait blocks until in-flight fetches settle. Test helper.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) fetch(ctx context.Context, epoch uint64, origin, pickup, dropoff models.Location) {
	ctx = wrap.WithAction(ctx, types.ActionRouteFetch)

	var driver, delivery *models.RouteLeg
	if origin.Valid() && pickup.Valid() {
		driver = t.route(ctx, origin, pickup)
	}
	if pickup.Valid() && dropoff.Valid() {
		delivery = t.route(ctx, pickup, dropoff)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if epoch != t.epoch {
		t.log.Debug(wrap.WithAction(ctx, types.ActionRouteStale), "discarding stale route result")
		metrics.RouteFetchesTotal.WithLabelValues("stale").Inc()
		return
	}

	t.legs = Legs{Driver: driver, Delivery: delivery}
	t.anim = NewAnimation(t.now(), t.duration)
}

// route fetches one leg. Failures are not surfaced to the courier, the
// leg just stays on the straight-line fallback.
func (t *Tracker) route(ctx context.Context, start, end models.Location) *models.RouteLeg {
	began := time.Now()

	leg, err := t.provider.Route(ctx, start, end)
	if err != nil || leg == nil {
		if err != nil {
			t.log.Debug(wrap.WithAction(ctx, types.ActionRouteFallback), "route fetch failed", "error", err.Error())
		}
		metrics.RecordRouteFetch("fallback", time.Since(began))
		return nil
	}

	metrics.RecordRouteFetch("ok", time.Since(began))
	return leg
}
