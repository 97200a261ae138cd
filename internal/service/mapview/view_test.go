package mapview

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/internal/service/route"
	"github.com/quickeats/courier-client/pkg/logger"
)

type providerFunc func(ctx context.Context, start, end models.Location) (*models.RouteLeg, error)

func (f providerFunc) Route(ctx context.Context, start, end models.Location) (*models.RouteLeg, error) {
	return f(ctx, start, end)
}

func routedProvider() providerFunc {
	return func(_ context.Context, start, end models.Location) (*models.RouteLeg, error) {
		return &models.RouteLeg{
			Geometry:        []models.Location{start, end},
			DistanceMeters:  1500,
			DurationSeconds: 180,
		}, nil
	}
}

func failingProvider() providerFunc {
	return func(_ context.Context, _, _ models.Location) (*models.RouteLeg, error) {
		return nil, types.ErrRouteUnavailable
	}
}

func newView(t *testing.T, provider route.Provider) (*View, *route.Tracker) {
	t.Helper()

	routes := route.NewTracker(provider, 800*time.Millisecond, logger.InitLogger("test", logger.LevelError))
	view := NewView(Config{FitPaddingPx: 48, FitTransition: 600 * time.Millisecond}, routes)
	return view, routes
}

func deliveryOrder(stage types.Stage) models.ActiveOrder {
	return models.ActiveOrder{
		ID:             uuid.New(),
		Stage:          stage,
		DriverLocation: &models.Location{Latitude: 43.22, Longitude: 76.87},
		Pickup: models.Place{
			Name:     "Plov House",
			Location: models.Location{Latitude: 43.24, Longitude: 76.89},
		},
		Dropoff: models.Place{
			Address:  "Abay 10",
			Location: models.Location{Latitude: 43.26, Longitude: 76.91},
		},
	}
}

func markerKinds(f Frame) map[MarkerKind]bool {
	kinds := make(map[MarkerKind]bool, len(f.Markers))
	for _, m := range f.Markers {
		kinds[m.Kind] = true
	}
	return kinds
}

func lineKinds(f Frame) map[PolylineKind][]models.Location {
	lines := make(map[PolylineKind][]models.Location, len(f.Polylines))
	for _, p := range f.Polylines {
		lines[p.Kind] = p.Points
	}
	return lines
}

// Until the first fix lands the map shows the persistent inline message
// and no courier marker.
func TestFrameWithoutLocationFix(t *testing.T) {
	view, _ := newView(t, routedProvider())

	f := view.Frame(time.Now())
	require.NotEmpty(t, f.InlineMessage)
	require.Empty(t, f.Markers)
}

func TestInvalidFixIgnored(t *testing.T) {
	view, _ := newView(t, routedProvider())

	view.SetLocation(models.Location{Latitude: 0, Longitude: 0})

	f := view.Frame(time.Now())
	require.NotEmpty(t, f.InlineMessage, "the (0,0) sentinel must not count as a fix")
}

func TestLocationLossBringsMessageBack(t *testing.T) {
	view, _ := newView(t, routedProvider())

	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})
	require.Empty(t, view.Frame(time.Now()).InlineMessage)

	view.LocationUnavailable()
	require.NotEmpty(t, view.Frame(time.Now()).InlineMessage)
}

func TestRecenterWithoutOrder(t *testing.T) {
	view, _ := newView(t, routedProvider())
	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})

	require.Nil(t, view.Frame(time.Now()).Viewport, "no refit without a request")

	view.RecenterToMe()
	f := view.Frame(time.Now())
	require.NotNil(t, f.Viewport)
	require.Equal(t, 48, f.Viewport.PaddingPx)
	require.Nil(t, view.Frame(time.Now()).Viewport, "refit fires once")
}

func TestFrameBeforePickup(t *testing.T) {
	view, routes := newView(t, routedProvider())
	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})

	order := deliveryOrder(types.StageDriverAssigned)
	routes.Refresh(context.Background(), order)
	routes.Wait()
	view.SetOrder(&order)

	// far enough in the future that the reveal is complete
	f := view.Frame(time.Now().Add(time.Minute))

	kinds := markerKinds(f)
	require.True(t, kinds[MarkerCourier])
	require.True(t, kinds[MarkerPickup])
	require.True(t, kinds[MarkerDropoff])

	lines := lineKinds(f)
	require.Contains(t, lines, LineDriverLeg)
	require.Contains(t, lines, LineDeliveryLeg)
	require.NotNil(t, f.Viewport, "an order change schedules a refit")
}

// After pickup the pickup marker and the approach leg disappear.
func TestFrameAfterPickup(t *testing.T) {
	view, routes := newView(t, routedProvider())
	view.SetLocation(models.Location{Latitude: 43.24, Longitude: 76.89})

	order := deliveryOrder(types.StagePickedUp)
	routes.Refresh(context.Background(), order)
	routes.Wait()
	view.SetOrder(&order)

	f := view.Frame(time.Now().Add(time.Minute))

	kinds := markerKinds(f)
	require.False(t, kinds[MarkerPickup])
	require.True(t, kinds[MarkerDropoff])

	lines := lineKinds(f)
	require.NotContains(t, lines, LineDriverLeg)
	require.Contains(t, lines, LineDeliveryLeg)
}

// A leg the provider could not route renders as the straight segment
// between its endpoints.
func TestStraightLineFallback(t *testing.T) {
	view, routes := newView(t, failingProvider())
	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})

	order := deliveryOrder(types.StageDriverAssigned)
	routes.Refresh(context.Background(), order)
	routes.Wait()
	view.SetOrder(&order)

	f := view.Frame(time.Now().Add(time.Minute))

	lines := lineKinds(f)
	delivery, ok := lines[LineDeliveryLeg]
	require.True(t, ok)
	require.Len(t, delivery, 2)
	require.True(t, delivery[0].SamePoint(order.Pickup.Location))
	require.True(t, delivery[1].SamePoint(order.Dropoff.Location))
}

// Early in the reveal a started leg still shows a visible stub rather
// than a zero-length line.
func TestRevealNeverZeroLength(t *testing.T) {
	view, routes := newView(t, routedProvider())
	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})

	order := deliveryOrder(types.StageDriverAssigned)
	routes.Refresh(context.Background(), order)
	routes.Wait()
	view.SetOrder(&order)

	// sampled immediately: progress is barely above zero
	f := view.Frame(time.Now())
	for _, p := range f.Polylines {
		require.GreaterOrEqual(t, len(p.Points), 2, "polyline %s collapsed", p.Kind)
		require.False(t, p.Points[0].SamePoint(p.Points[len(p.Points)-1]),
			"polyline %s is zero-length", p.Kind)
	}
}

func TestClearingOrderDropsOverlay(t *testing.T) {
	view, routes := newView(t, routedProvider())
	view.SetLocation(models.Location{Latitude: 43.22, Longitude: 76.87})

	order := deliveryOrder(types.StageDriverAssigned)
	routes.Refresh(context.Background(), order)
	routes.Wait()
	view.SetOrder(&order)
	view.Frame(time.Now())

	routes.Clear()
	view.SetOrder(nil)

	f := view.Frame(time.Now())
	require.Empty(t, f.Polylines)
	kinds := markerKinds(f)
	require.False(t, kinds[MarkerPickup])
	require.False(t, kinds[MarkerDropoff])
	require.True(t, kinds[MarkerCourier])
}
