package geo

import (
	"math"

	"github.com/quickeats/courier-client/internal/domain/models"
)

// PartialPath returns the prefix of the path scaled by progress t in [0,1],
// with linear interpolation at the cut point.
//
// Non-finite entries are dropped. An empty input gives nil, a single point
// gives that point. t is clamped to [0,1]; non-finite t counts as 0.
// For t=0 the result is the first point only, for t=1 the full path.
func PartialPath(coords []models.Location, t float64) []models.Location {
	pts := make([]models.Location, 0, len(coords))
	for _, p := range coords {
		if finite(p) {
			pts = append(pts, p)
		}
	}

	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		return pts
	}

	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))

	if t == 0 {
		return pts[:1]
	}

	total := len(pts) - 1
	exact := t * float64(total)
	idx := int(math.Floor(exact))
	frac := exact - float64(idx)

	out := make([]models.Location, 0, idx+2)
	out = append(out, pts[:idx+1]...)

	// Synthetic cut point. At a segment boundary (frac == 0) it coincides
	// with the last full point, which keeps the cut position explicit.
	if idx < total {
		a, b := pts[idx], pts[idx+1]
		out = append(out, models.Location{
			Latitude:  a.Latitude + (b.Latitude-a.Latitude)*frac,
			Longitude: a.Longitude + (b.Longitude-a.Longitude)*frac,
		})
	}

	return out
}

func finite(p models.Location) bool {
	return !math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0) &&
		!math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0)
}
