package geo

import (
	"github.com/quickeats/courier-client/internal/domain/models"
)

// FitBounds computes the bounding box over all renderable points.
// Invalid locations (out of range or the (0,0) sentinel) are skipped.
// ok is false when no point survives the filter.
func FitBounds(points []models.Location) (models.Bounds, bool) {
	var b models.Bounds
	found := false

	for _, p := range points {
		if !p.Valid() {
			continue
		}
		if !found {
			b = models.Bounds{
				MinLat: p.Latitude, MaxLat: p.Latitude,
				MinLng: p.Longitude, MaxLng: p.Longitude,
			}
			found = true
			continue
		}
		if p.Latitude < b.MinLat {
			b.MinLat = p.Latitude
		}
		if p.Latitude > b.MaxLat {
			b.MaxLat = p.Latitude
		}
		if p.Longitude < b.MinLng {
			b.MinLng = p.Longitude
		}
		if p.Longitude > b.MaxLng {
			b.MaxLng = p.Longitude
		}
	}

	return b, found
}
