package geo

import (
	"testing"

	"github.com/quickeats/courier-client/internal/domain/models"
)

func TestFitBounds(t *testing.T) {
	pts := []models.Location{
		loc(43.23, 76.88),
		loc(43.25, 76.90),
		loc(43.20, 76.95),
	}

	b, ok := FitBounds(pts)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.MinLat != 43.20 || b.MaxLat != 43.25 {
		t.Fatalf("lat bounds wrong: %+v", b)
	}
	if b.MinLng != 76.88 || b.MaxLng != 76.95 {
		t.Fatalf("lng bounds wrong: %+v", b)
	}
}

func TestFitBounds_SkipsInvalid(t *testing.T) {
	pts := []models.Location{
		loc(0, 0),      // sentinel for unknown
		loc(91, 10),    // out of range
		loc(43.23, 76.88),
	}

	b, ok := FitBounds(pts)
	if !ok {
		t.Fatal("expected bounds from the one valid point")
	}
	if b.MinLat != 43.23 || b.MaxLat != 43.23 {
		t.Fatalf("invalid points leaked into bounds: %+v", b)
	}
}

func TestFitBounds_NothingValid(t *testing.T) {
	if _, ok := FitBounds([]models.Location{loc(0, 0)}); ok {
		t.Fatal("sentinel-only input must not produce bounds")
	}
}

func TestDistanceKm(t *testing.T) {
	// Алматы — Астана, примерно 970 км
	almaty := loc(43.238949, 76.889709)
	astana := loc(51.169392, 71.449074)

	d := DistanceKm(almaty, astana)
	if d < 900 || d > 1050 {
		t.Fatalf("unexpected distance: %f km", d)
	}

	if DistanceKm(almaty, almaty) != 0 {
		t.Fatal("distance to self must be zero")
	}
}
