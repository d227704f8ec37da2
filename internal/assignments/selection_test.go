package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/geo"
	"github.com/townkart/townkart-backend/pkg/types"
)

func newTestSelector() (*Selector, *stubRegistry, *stubAssignmentsRepo) {
	cfg := testDispatchConfig()
	repo := newStubAssignmentsRepo()
	registry := newStubRegistry()
	repo.partners = registry.partners
	scorer := NewScorer(geo.NewHaversineEstimator(), cfg)
	return NewSelector(registry, repo, scorer, cfg), registry, repo
}

func shopOrder(lat, lng float64) *models.Order {
	return &models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.OrderStatusReadyForPickup,
		Shop: &models.Shop{
			Name:     "Corner Store",
			Location: &types.GeographyPoint{Lat: lat, Lng: lng},
		},
	}
}

func availablePartner(registry *stubRegistry, location *types.GeographyPoint) *models.User {
	partner := &models.User{
		ID:              uuid.New(),
		Role:            enums.UserRoleDeliveryPartner,
		IsActive:        true,
		IsOnline:        true,
		IsAvailable:     true,
		RideStatus:      enums.RideStatusAvailable,
		CurrentLocation: location,
	}
	registry.partners[partner.ID] = partner
	return partner
}

func TestRankCandidatesPrefersCloserPartner(t *testing.T) {
	selector, registry, _ := newTestSelector()
	order := shopOrder(12.9716, 77.5946)

	// ~0.1 km away versus ~11 km away.
	near := availablePartner(registry, &types.GeographyPoint{Lat: 12.9720, Lng: 77.5950})
	far := availablePartner(registry, &types.GeographyPoint{Lat: 13.0716, Lng: 77.5946})

	ranked, err := selector.RankCandidates(context.Background(), order)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].Partner.ID != near.ID {
		t.Fatalf("expected the closer partner first")
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Fatalf("expected strictly higher score for closer partner")
	}
	_ = far
}

func TestRankCandidatesAppliesHardFilters(t *testing.T) {
	selector, registry, _ := newTestSelector()
	order := shopOrder(12.9716, 77.5946)

	radius := 1.0
	outOfRange := availablePartner(registry, &types.GeographyPoint{Lat: 13.0716, Lng: 77.5946})
	outOfRange.Settings = &models.PartnerSettings{MaxDeliveryRadiusKm: &radius}

	ranked, err := selector.RankCandidates(context.Background(), order)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected the out-of-radius partner to be excluded, got %d candidates", len(ranked))
	}
}

func TestSelectBestPartnerFallback(t *testing.T) {
	selector, registry, repo := newTestSelector()
	order := shopOrder(12.9716, 77.5946)

	busy := availablePartner(registry, nil)
	busy.IsAvailable = false
	busy.RideStatus = enums.RideStatusOnRide

	pickedUp := time.Now().Add(-25 * time.Minute)
	repo.assignments[uuid.New()] = &models.OrderAssignment{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		PartnerID:  busy.ID,
		Status:     enums.AssignmentStatusInTransit,
		PickupTime: &pickedUp,
		AssignedAt: pickedUp.Add(-5 * time.Minute),
	}

	candidate, err := selector.SelectBestPartner(context.Background(), order)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if candidate == nil || candidate.Partner.ID != busy.ID {
		t.Fatalf("expected fallback candidate")
	}
	if !candidate.Fallback {
		t.Fatalf("expected candidate flagged as fallback")
	}
}

func TestSelectBestPartnerFallbackSkipsFreshOrNonTransit(t *testing.T) {
	selector, registry, repo := newTestSelector()
	order := shopOrder(12.9716, 77.5946)

	// Busy but only just picked up.
	fresh := availablePartner(registry, nil)
	fresh.IsAvailable = false
	fresh.RideStatus = enums.RideStatusOnRide
	recentPickup := time.Now().Add(-2 * time.Minute)
	repo.assignments[uuid.New()] = &models.OrderAssignment{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		PartnerID:  fresh.ID,
		Status:     enums.AssignmentStatusInTransit,
		PickupTime: &recentPickup,
		AssignedAt: recentPickup,
	}

	// Busy but still heading to the shop.
	assigned := availablePartner(registry, nil)
	assigned.IsAvailable = false
	assigned.RideStatus = enums.RideStatusOnRide
	repo.assignments[uuid.New()] = &models.OrderAssignment{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		PartnerID:  assigned.ID,
		Status:     enums.AssignmentStatusAccepted,
		AssignedAt: time.Now(),
	}

	candidate, err := selector.SelectBestPartner(context.Background(), order)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if candidate != nil {
		t.Fatalf("expected no candidate, got partner %s", candidate.Partner.ID)
	}
}
