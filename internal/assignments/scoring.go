package assignments

import (
	"time"

	"github.com/townkart/townkart-backend/internal/partners"
	"github.com/townkart/townkart-backend/pkg/config"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/geo"
	"github.com/townkart/townkart-backend/pkg/types"
)

// Score weights. Each factor is independently bounded; the proximity factor
// dominates, recency barely nudges ties.
const (
	baseScore            = 100.0
	proximityWeight      = 40.0
	completionRateWeight = 30.0
	loadFreeBonus        = 20.0
	loadInTransitBonus   = 10.0
	loadPickedUpBonus    = 5.0
	autoAcceptBonus      = 10.0
	recentActivityShort  = 5.0
	recentActivityLong   = 3.0
)

// CompletionHistory is a partner's delivered-vs-total assignment record.
type CompletionHistory struct {
	Completed int64
	Total     int64
}

// Candidate is a scored partner for one specific order.
type Candidate struct {
	Partner    models.User
	DistanceKm float64
	Score      float64
	Fallback   bool
}

// Scorer computes a composite desirability score for a partner against an
// order. Higher is better.
type Scorer struct {
	estimator geo.Estimator
	cfg       config.DispatchConfig
}

func NewScorer(estimator geo.Estimator, cfg config.DispatchConfig) *Scorer {
	return &Scorer{estimator: estimator, cfg: cfg}
}

// DistanceKm estimates the partner's travel distance to the order's pickup
// point (the shop). Unknown locations fall back to the estimator's default.
func (s *Scorer) DistanceKm(partner *models.User, order *models.Order) float64 {
	var pickup *types.GeographyPoint
	if order != nil && order.Shop != nil {
		pickup = order.Shop.Location
	}
	return s.estimator.DistanceKm(partner.CurrentLocation, pickup)
}

// Eligible applies the hard filters: a partner outside their configured work
// schedule or beyond their configured delivery radius is excluded entirely,
// not scored low.
func (s *Scorer) Eligible(partner *models.User, distanceKm float64, now time.Time) bool {
	if !partners.WithinWorkSchedule(partner.Settings, now) {
		return false
	}
	if partner.Settings != nil && partner.Settings.MaxDeliveryRadiusKm != nil {
		if distanceKm > *partner.Settings.MaxDeliveryRadiusKm {
			return false
		}
	}
	return true
}

// Score combines proximity, completion history, current load, the
// auto-accept preference and activity recency on top of the base score.
func (s *Scorer) Score(partner *models.User, distanceKm float64, history CompletionHistory, activeStatus *enums.AssignmentStatus, now time.Time) float64 {
	score := baseScore
	score += proximityPoints(distanceKm)
	if history.Total > 0 {
		score += completionRateWeight * float64(history.Completed) / float64(history.Total)
	}
	score += loadPoints(activeStatus)
	if partner.Settings != nil && partner.Settings.AutoAcceptOrders {
		score += autoAcceptBonus
	}
	score += s.recencyPoints(partner.LastActivityAt, now)
	return score
}

func proximityPoints(distanceKm float64) float64 {
	switch {
	case distanceKm <= 2:
		return proximityWeight
	case distanceKm <= 5:
		return 30 - 3*(distanceKm-2)
	case distanceKm <= 10:
		return 20 - 2*(distanceKm-5)
	default:
		points := 10 - (distanceKm - 10)
		if points < 0 {
			return 0
		}
		return points
	}
}

func loadPoints(activeStatus *enums.AssignmentStatus) float64 {
	if activeStatus == nil {
		return loadFreeBonus
	}
	switch *activeStatus {
	case enums.AssignmentStatusInTransit:
		return loadInTransitBonus
	case enums.AssignmentStatusPickedUp:
		return loadPickedUpBonus
	default:
		return 0
	}
}

func (s *Scorer) recencyPoints(lastActivity *time.Time, now time.Time) float64 {
	if lastActivity == nil {
		return 0
	}
	idle := now.Sub(*lastActivity)
	switch {
	case idle <= s.cfg.RecentActivityShort:
		return recentActivityShort
	case idle <= s.cfg.RecentActivityLong:
		return recentActivityLong
	default:
		return 0
	}
}
