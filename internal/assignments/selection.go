package assignments

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/pkg/config"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
)

// PartnerPool is the slice of the partner registry the selector reads.
type PartnerPool interface {
	ListAvailablePartners(ctx context.Context) ([]models.User, error)
	ListOnlineBusyPartners(ctx context.Context) ([]models.User, error)
}

// Selector ranks the available pool for an order and falls back to busy
// partners who should free up soon. It is a greedy single-order heuristic:
// no global matching across pending orders is attempted, deliberately.
type Selector struct {
	pool   PartnerPool
	repo   Repository
	scorer *Scorer
	cfg    config.DispatchConfig
	now    func() time.Time
}

func NewSelector(pool PartnerPool, repo Repository, scorer *Scorer, cfg config.DispatchConfig) *Selector {
	return &Selector{
		pool:   pool,
		repo:   repo,
		scorer: scorer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// SelectBestPartner returns the top-ranked available partner, or a fallback
// candidate, or nil when no one is eligible.
func (s *Selector) SelectBestPartner(ctx context.Context, order *models.Order) (*Candidate, error) {
	ranked, err := s.RankCandidates(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(ranked) > 0 {
		return &ranked[0], nil
	}
	return s.fallbackCandidate(ctx)
}

// RankCandidates filters and scores the available pool, sorted by score
// descending. Sort is stable; ties keep discovery order.
func (s *Selector) RankCandidates(ctx context.Context, order *models.Order) ([]Candidate, error) {
	available, err := s.pool.ListAvailablePartners(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidates := make([]Candidate, 0, len(available))
	for i := range available {
		partner := available[i]
		distance := s.scorer.DistanceKm(&partner, order)
		if !s.scorer.Eligible(&partner, distance, now) {
			continue
		}
		completed, total, err := s.repo.CompletionCounts(ctx, partner.ID)
		if err != nil {
			return nil, err
		}
		// The available pool carries no active assignment, so load scores
		// the free bonus.
		score := s.scorer.Score(&partner, distance, CompletionHistory{Completed: completed, Total: total}, nil, now)
		candidates = append(candidates, Candidate{
			Partner:    partner,
			DistanceKm: distance,
			Score:      score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// fallbackCandidate scans online busy partners for the first one whose
// active assignment is in transit with a pickup older than the configured
// threshold. First-found, not best-found: the goal is to unblock the order,
// not to optimize.
func (s *Selector) fallbackCandidate(ctx context.Context) (*Candidate, error) {
	busy, err := s.pool.ListOnlineBusyPartners(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range busy {
		active, err := s.repo.FindActiveByPartner(ctx, busy[i].ID)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if active.Status != enums.AssignmentStatusInTransit || active.PickupTime == nil {
			continue
		}
		if now.Sub(*active.PickupTime) >= s.cfg.FallbackPickupAge {
			return &Candidate{Partner: busy[i], Fallback: true}, nil
		}
	}
	return nil, nil
}
