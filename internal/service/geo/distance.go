package geo

import (
	"math"

	"github.com/quickeats/courier-client/internal/domain/models"
)

const earthRadiusKm = 6371 // радиус Земли в км

// DistanceKm вычисляет расстояние между двумя координатами по формуле
// гаверсинусов, в километрах.
func DistanceKm(p1, p2 models.Location) float64 {
	lat1Rad := p1.Latitude * math.Pi / 180
	lon1Rad := p1.Longitude * math.Pi / 180
	lat2Rad := p2.Latitude * math.Pi / 180
	lon2Rad := p2.Longitude * math.Pi / 180

	diffLat := lat2Rad - lat1Rad
	diffLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(diffLon/2), 2)
	angle := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * angle
}
