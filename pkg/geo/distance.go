// Package geo provides the distance estimate used as a scoring input for
// partner selection. It is an estimate, not a routing distance.
package geo

import (
	"math"

	"github.com/townkart/townkart-backend/pkg/types"
)

const earthRadiusKm = 6371.0

// DefaultDistanceKm is assumed when either endpoint has no known location.
// Distance only feeds scoring, so a missing location must not fail dispatch.
const DefaultDistanceKm = 5.0

// Estimator returns a travel distance in kilometres between two points.
type Estimator interface {
	DistanceKm(from, to *types.GeographyPoint) float64
}

// HaversineEstimator computes great-circle distance between coordinates.
type HaversineEstimator struct {
	// MissingDistanceKm substitutes when a location is unknown. Zero means
	// DefaultDistanceKm.
	MissingDistanceKm float64
}

// NewHaversineEstimator returns an estimator with the standard fallback.
func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{MissingDistanceKm: DefaultDistanceKm}
}

// DistanceKm implements Estimator.
func (h *HaversineEstimator) DistanceKm(from, to *types.GeographyPoint) float64 {
	if from == nil || to == nil {
		if h.MissingDistanceKm > 0 {
			return h.MissingDistanceKm
		}
		return DefaultDistanceKm
	}
	return HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
