package mapview

import (
	"sync"
	"time"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/internal/service/geo"
	"github.com/quickeats/courier-client/internal/service/route"
)

// Once the reveal has started a leg must never render as a zero-length
// line, so sampled progress is floored at this epsilon.
const minVisibleProgress = 0.02

const locationUnavailableMessage = "Location unavailable. Check GPS permissions."

type MarkerKind string

const (
	MarkerCourier MarkerKind = "courier"
	MarkerPickup  MarkerKind = "pickup"
	MarkerDropoff MarkerKind = "dropoff"
)

type Marker struct {
	Kind     MarkerKind      `json:"kind"`
	Location models.Location `json:"location"`
	Label    string          `json:"label,omitempty"`
}

type PolylineKind string

const (
	LineDriverLeg   PolylineKind = "driver_leg"
	LineDeliveryLeg PolylineKind = "delivery_leg"
)

type Polyline struct {
	Kind   PolylineKind      `json:"kind"`
	Points []models.Location `json:"points"`
}

// Viewport is a fit request for the rendering primitive: show these
// bounds with fixed padding over a bounded transition.
type Viewport struct {
	Bounds     models.Bounds `json:"bounds"`
	PaddingPx  int           `json:"padding_px"`
	Transition time.Duration `json:"transition"`
}

// Frame is everything the rendering layer needs for one draw pass.
// It is a value: the renderer never touches live state.
type Frame struct {
	Markers       []Marker
	Polylines     []Polyline
	Viewport      *Viewport // set only on passes where a refit is due
	InlineMessage string    // persistent, e.g. location unavailable
}

type Config struct {
	FitPaddingPx  int
	FitTransition time.Duration
}

// View assembles render frames from the current location, the order
// snapshot and the sampled route animation. Viewport bounds are
// recomputed only when the order identity changes or the courier asks
// to recenter, not on every tick.
type View struct {
	cfg    Config
	routes *route.Tracker

	mu         sync.Mutex
	location   *models.Location
	locationOK bool
	order      *models.ActiveOrder
	fitPending bool
}

func NewView(cfg Config, routes *route.Tracker) *View {
	return &View{
		cfg:    cfg,
		routes: routes,
		// до первого фикса локации показываем inline-сообщение
		locationOK: false,
	}
}

// SetLocation feeds the device location stream.
func (v *View) SetLocation(loc models.Location) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !loc.Valid() {
		return
	}
	cp := loc
	v.location = &cp
	v.locationOK = true
}

// LocationUnavailable switches the view to the persistent inline state
// until the next successful fix.
func (v *View) LocationUnavailable() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.locationOK = false
}

// SetOrder replaces the rendered order snapshot. Passing nil drops it.
// Any change schedules a viewport refit for the next frame.
func (v *View) SetOrder(order *models.ActiveOrder) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if order == nil {
		v.order = nil
	} else {
		cp := *order
		v.order = &cp
	}
	v.fitPending = true
}

// RecenterToMe is the explicit user action when no order is shown.
func (v *View) RecenterToMe() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fitPending = true
}

// Frame builds the draw pass for the given instant.
func (v *View) Frame(now time.Time) Frame {
	v.mu.Lock()
	location := v.location
	locationOK := v.locationOK
	order := v.order
	fit := v.fitPending
	v.fitPending = false
	v.mu.Unlock()

	var f Frame
	if !locationOK {
		f.InlineMessage = locationUnavailableMessage
	}

	if location != nil && locationOK {
		f.Markers = append(f.Markers, Marker{Kind: MarkerCourier, Location: *location})
	}

	if order == nil {
		if fit && location != nil && locationOK {
			f.Viewport = v.viewport([]models.Location{*location})
		}
		return f
	}

	rs := v.routes.State(now)
	beforePickup := order.Stage.Index() < types.StagePickedUp.Index()

	// Маркеры зависят от стадии: после забора pickup уже не нужен.
	if beforePickup && order.Pickup.Location.Valid() {
		f.Markers = append(f.Markers, Marker{
			Kind:     MarkerPickup,
			Location: order.Pickup.Location,
			Label:    order.Pickup.Name,
		})
	}
	if order.Dropoff.Location.Valid() {
		f.Markers = append(f.Markers, Marker{
			Kind:     MarkerDropoff,
			Location: order.Dropoff.Location,
			Label:    order.Dropoff.Address,
		})
	}

	if rs.Active {
		if beforePickup {
			if line := sampleLeg(rs.Legs.Driver, rs.Origin, rs.Pickup, rs.Progress); line != nil {
				f.Polylines = append(f.Polylines, Polyline{Kind: LineDriverLeg, Points: line})
			}
		}
		if line := sampleLeg(rs.Legs.Delivery, rs.Pickup, rs.Dropoff, rs.Progress); line != nil {
			f.Polylines = append(f.Polylines, Polyline{Kind: LineDeliveryLeg, Points: line})
		}
	}

	if fit {
		f.Viewport = v.viewport(v.fitPoints(location, locationOK, order, rs))
	}

	return f
}

// sampleLeg returns the partially revealed polyline for one leg.
// A leg with no usable geometry degrades to the straight segment
// between its logical endpoints.
func sampleLeg(leg *models.RouteLeg, from, to models.Location, progress float64) []models.Location {
	geometry := straightOrGeometry(leg, from, to)
	if len(geometry) < 2 {
		return nil
	}

	if progress > 0 && progress < minVisibleProgress {
		progress = minVisibleProgress
	}
	line := geo.PartialPath(geometry, progress)
	if len(line) < 2 {
		return nil
	}
	return line
}

func straightOrGeometry(leg *models.RouteLeg, from, to models.Location) []models.Location {
	if leg != nil && len(leg.Geometry) >= 2 {
		return leg.Geometry
	}
	if !from.Valid() || !to.Valid() {
		return nil
	}
	return []models.Location{from, to}
}

// fitPoints is the union of everything worth keeping on screen.
func (v *View) fitPoints(location *models.Location, locationOK bool, order *models.ActiveOrder, rs route.State) []models.Location {
	var pts []models.Location

	if rs.Active {
		if rs.Legs.Driver != nil {
			pts = append(pts, rs.Legs.Driver.Geometry...)
		}
		if rs.Legs.Delivery != nil {
			pts = append(pts, rs.Legs.Delivery.Geometry...)
		}
	}
	if location != nil && locationOK {
		pts = append(pts, *location)
	}
	pts = append(pts, order.Pickup.Location, order.Dropoff.Location)

	return pts
}

func (v *View) viewport(pts []models.Location) *Viewport {
	bounds, ok := geo.FitBounds(pts)
	if !ok {
		return nil
	}
	return &Viewport{
		Bounds:     bounds,
		PaddingPx:  v.cfg.FitPaddingPx,
		Transition: v.cfg.FitTransition,
	}
}
