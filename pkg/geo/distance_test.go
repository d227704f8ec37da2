package geo

import (
	"math"
	"testing"

	"github.com/townkart/townkart-backend/pkg/types"
)

func TestHaversineKmKnownDistance(t *testing.T) {
	// Connaught Place to India Gate, roughly 2.5 km.
	got := HaversineKm(28.6315, 77.2167, 28.6129, 77.2295)
	if got < 2.0 || got > 3.0 {
		t.Fatalf("expected roughly 2.5 km, got %f", got)
	}
}

func TestHaversineKmZeroForSamePoint(t *testing.T) {
	if got := HaversineKm(12.97, 77.59, 12.97, 77.59); math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0 for identical points, got %f", got)
	}
}

func TestEstimatorFallsBackWhenLocationMissing(t *testing.T) {
	est := NewHaversineEstimator()
	if got := est.DistanceKm(nil, &types.GeographyPoint{Lat: 1, Lng: 1}); got != DefaultDistanceKm {
		t.Fatalf("expected default distance %f, got %f", DefaultDistanceKm, got)
	}
	if got := est.DistanceKm(&types.GeographyPoint{Lat: 1, Lng: 1}, nil); got != DefaultDistanceKm {
		t.Fatalf("expected default distance %f, got %f", DefaultDistanceKm, got)
	}

	custom := &HaversineEstimator{MissingDistanceKm: 7.5}
	if got := custom.DistanceKm(nil, nil); got != 7.5 {
		t.Fatalf("expected configured fallback 7.5, got %f", got)
	}
}

func TestEstimatorComputesBetweenPoints(t *testing.T) {
	est := NewHaversineEstimator()
	from := &types.GeographyPoint{Lat: 28.6315, Lng: 77.2167}
	to := &types.GeographyPoint{Lat: 28.6129, Lng: 77.2295}
	if got := est.DistanceKm(from, to); got < 2.0 || got > 3.0 {
		t.Fatalf("expected roughly 2.5 km, got %f", got)
	}
}
