// Package geo computes geodesic distances on the WGS84 ellipsoid and filters
// addresses by proximity to a reference point.
package geo

import (
	"math"

	"addressbook-api/internal/models"

	"github.com/tidwall/geodesic"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the geodesic distance between a and b in kilometres.
// It returns NaN when either latitude lies outside [-90, 90], so such points
// never compare as within any radius.
func Distance(a, b Point) float64 {
	if !validLatitude(a.Lat) || !validLatitude(b.Lat) {
		return math.NaN()
	}
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}

func validLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// WithinDistance returns the addresses whose geodesic distance from the
// reference point is at most maxKm. The boundary is inclusive and the input
// order is preserved. The scan is linear; there is no spatial index.
func WithinDistance(addresses []models.Address, refLat, refLon, maxKm float64) []models.Address {
	ref := Point{Lat: refLat, Lon: refLon}
	result := make([]models.Address, 0)
	for _, a := range addresses {
		if Distance(ref, Point{Lat: a.Latitude, Lon: a.Longitude}) <= maxKm {
			result = append(result, a)
		}
	}
	return result
}
