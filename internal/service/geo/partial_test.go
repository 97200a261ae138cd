package geo

import (
	"math"
	"testing"

	"github.com/quickeats/courier-client/internal/domain/models"
)

func loc(lat, lng float64) models.Location {
	return models.Location{Latitude: lat, Longitude: lng}
}

func TestPartialPath_Empty(t *testing.T) {
	if got := PartialPath(nil, 0.5); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestPartialPath_SinglePoint(t *testing.T) {
	got := PartialPath([]models.Location{loc(1, 2)}, 0.7)
	if len(got) != 1 || !got[0].SamePoint(loc(1, 2)) {
		t.Fatalf("single point must pass through, got %v", got)
	}
}

func TestPartialPath_Endpoints(t *testing.T) {
	coords := []models.Location{loc(0, 0), loc(10, 0), loc(10, 10)}

	start := PartialPath(coords, 0)
	if len(start) != 1 || !start[0].SamePoint(coords[0]) {
		t.Fatalf("t=0 must be the first point only, got %v", start)
	}

	full := PartialPath(coords, 1)
	if len(full) != len(coords) {
		t.Fatalf("t=1 must be the full path, got %d points", len(full))
	}
	for i := range coords {
		if !full[i].SamePoint(coords[i]) {
			t.Fatalf("t=1 point %d differs: %v vs %v", i, full[i], coords[i])
		}
	}
}

// Segment-boundary case: t=0.5 over two segments cuts exactly at the
// middle vertex, so the synthetic point coincides with it.
func TestPartialPath_SegmentBoundary(t *testing.T) {
	coords := []models.Location{loc(0, 0), loc(10, 0), loc(10, 10)}

	got := PartialPath(coords, 0.5)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d: %v", len(got), got)
	}
	if !got[0].SamePoint(loc(0, 0)) || !got[1].SamePoint(loc(10, 0)) {
		t.Fatalf("prefix mismatch: %v", got)
	}
	if !got[2].SamePoint(loc(10, 0)) {
		t.Fatalf("cut point must be exactly [10,0], got %v", got[2])
	}
}

func TestPartialPath_Interpolates(t *testing.T) {
	coords := []models.Location{loc(0, 0), loc(10, 0)}

	got := PartialPath(coords, 0.25)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %v", got)
	}
	if got[1].Latitude != 2.5 || got[1].Longitude != 0 {
		t.Fatalf("expected cut at lat 2.5, got %v", got[1])
	}
}

func TestPartialPath_ClampsT(t *testing.T) {
	coords := []models.Location{loc(0, 0), loc(10, 0)}

	if got := PartialPath(coords, 2.5); len(got) != 2 || !got[1].SamePoint(loc(10, 0)) {
		t.Fatalf("t>1 must clamp to full path, got %v", got)
	}
	if got := PartialPath(coords, -3); len(got) != 1 {
		t.Fatalf("t<0 must clamp to first point, got %v", got)
	}
	if got := PartialPath(coords, math.NaN()); len(got) != 1 {
		t.Fatalf("NaN t must behave as 0, got %v", got)
	}
}

func TestPartialPath_DropsNonFinite(t *testing.T) {
	coords := []models.Location{
		loc(0, 0),
		loc(math.NaN(), 5),
		loc(10, 0),
		loc(5, math.Inf(1)),
	}

	got := PartialPath(coords, 1)
	if len(got) != 2 {
		t.Fatalf("non-finite entries must be dropped, got %v", got)
	}
}

// Point count never decreases as t grows.
func TestPartialPath_Monotonic(t *testing.T) {
	coords := []models.Location{loc(0, 0), loc(1, 1), loc(2, 0), loc(3, 3), loc(4, 1)}

	prev := 0
	for i := 0; i <= 100; i++ {
		tt := float64(i) / 100
		n := len(PartialPath(coords, tt))
		if n < 1 {
			t.Fatalf("t=%.2f produced empty result", tt)
		}
		if n < prev {
			t.Fatalf("point count decreased at t=%.2f: %d -> %d", tt, prev, n)
		}
		prev = n
	}
}
