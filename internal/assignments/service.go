package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/internal/partners"
	"github.com/townkart/townkart-backend/pkg/config"
	"github.com/townkart/townkart-backend/pkg/db"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/logger"
	"github.com/townkart/townkart-backend/pkg/metrics"
	"github.com/townkart/townkart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DeliveryNotifier receives the delivery-completed event after a successful
// delivery. Dispatch is best-effort: failures are logged, never propagated.
type DeliveryNotifier interface {
	DeliveryCompleted(ctx context.Context, event DeliveryCompletedEvent) error
}

// Service owns the assignment lifecycle: creation, the partner-driven
// transitions, and the read surface.
type Service interface {
	AutoAssign(ctx context.Context, input AutoAssignInput) (*models.OrderAssignment, error)
	ManualAssign(ctx context.Context, input ManualAssignInput) (*models.OrderAssignment, error)
	Accept(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error)
	Reject(ctx context.Context, input RejectInput) (*models.OrderAssignment, error)
	MarkPickedUp(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error)
	MarkDelivered(ctx context.Context, input DeliverInput) (*models.OrderAssignment, error)
	Rate(ctx context.Context, input RateInput) (*models.OrderAssignment, error)

	CurrentForPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error)
	HistoryForPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (*HistoryPage, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAssignment, error)
	StatsForPartner(ctx context.Context, partnerID uuid.UUID) (*PartnerStats, error)
}

// errPartnerTaken signals that the selected partner lost eligibility between
// selection and the locked re-validation; auto-assignment picks again.
var errPartnerTaken = errors.New("partner no longer eligible")

type service struct {
	repo     Repository
	partners partners.Repository
	tx       txRunner
	selector *Selector
	locks    *lockTable
	notifier DeliveryNotifier
	log      *logger.Logger
	metrics  *metrics.DispatchMetrics
	cfg      config.DispatchConfig
	now      func() time.Time
}

// NewService builds the assignment service with the required collaborators.
// Metrics may be nil.
func NewService(
	repo Repository,
	partnersRepo partners.Repository,
	tx txRunner,
	selector *Selector,
	notifier DeliveryNotifier,
	log *logger.Logger,
	dispatchMetrics *metrics.DispatchMetrics,
	cfg config.DispatchConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if partnersRepo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if selector == nil {
		return nil, fmt.Errorf("selector required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("delivery notifier required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		partners: partnersRepo,
		tx:       tx,
		selector: selector,
		locks:    newLockTable(cfg.LockStripes),
		notifier: notifier,
		log:      log,
		metrics:  dispatchMetrics,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

func (s *service) AutoAssign(ctx context.Context, input AutoAssignInput) (*models.OrderAssignment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.loadOrderForAssignment(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	started := s.now()
	attempts := s.cfg.SelectionRetries
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		candidate, err := s.selector.SelectBestPartner(ctx, order)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "select partner")
		}
		if candidate == nil {
			break
		}

		assignment, err := s.createAssignment(ctx, order.ID, candidate.Partner.ID, input.AssignedByID, enums.AssignmentTypeAuto, input.Notes, candidate.Fallback)
		if errors.Is(err, errPartnerTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.metrics.IncAssignment(string(enums.AssignmentTypeAuto))
		s.metrics.ObserveSelection(s.now().Sub(started))
		return assignment, nil
	}

	s.metrics.IncNoCandidate()
	return nil, pkgerrors.New(pkgerrors.CodeNoCandidate, "no eligible delivery partner available")
}

func (s *service) ManualAssign(ctx context.Context, input ManualAssignInput) (*models.OrderAssignment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	if input.AssignedByID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if _, err := s.loadOrderForAssignment(ctx, input.OrderID); err != nil {
		return nil, err
	}

	assignment, err := s.createAssignment(ctx, input.OrderID, input.PartnerID, input.AssignedByID, enums.AssignmentTypeManual, input.Notes, false)
	if errors.Is(err, errPartnerTaken) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "partner already has an active assignment")
	}
	if err != nil {
		return nil, err
	}
	s.metrics.IncAssignment(string(enums.AssignmentTypeManual))
	return assignment, nil
}

// loadOrderForAssignment is the cheap pre-flight check before the locked
// critical section; every guard is re-validated under the lock.
func (s *service) loadOrderForAssignment(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusReadyForPickup {
		if _, activeErr := s.repo.FindActiveByOrder(ctx, orderID); activeErr == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already has an active assignment")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for pickup")
	}
	return order, nil
}

func (s *service) createAssignment(
	ctx context.Context,
	orderID, partnerID, assignedByID uuid.UUID,
	assignmentType enums.AssignmentType,
	notes *string,
	viaFallback bool,
) (*models.OrderAssignment, error) {
	s.locks.Lock(orderID, partnerID)
	defer s.locks.Unlock(orderID, partnerID)

	var created *models.OrderAssignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		partnersRepo := s.partners.WithTx(tx)

		if _, err := repo.FindActiveByOrder(ctx, orderID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has an active assignment")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order assignment")
		}

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusReadyForPickup {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for pickup")
		}

		partner, err := partnersRepo.FindPartner(ctx, partnerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
		}
		if partner.Role != enums.UserRoleDeliveryPartner {
			return pkgerrors.New(pkgerrors.CodeValidation, "user is not a delivery partner")
		}
		if !partner.IsOnline {
			if assignmentType == enums.AssignmentTypeAuto {
				return errPartnerTaken
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "partner is not online")
		}

		if existing, err := repo.FindActiveByPartner(ctx, partnerID); err == nil {
			// The fallback deliberately queues one assignment behind a
			// partner's in-transit delivery; anything else is a conflict.
			if !viaFallback || existing.Status != enums.AssignmentStatusInTransit {
				return errPartnerTaken
			}
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check partner assignment")
		}

		now := s.now()
		fee := order.DeliveryFee
		orderUpdates := map[string]any{"status": enums.OrderStatusOutForDelivery}
		if fee.IsZero() {
			fee = decimal.NewFromFloat(s.cfg.DefaultDeliveryFee)
			orderUpdates["delivery_fee"] = fee
		}
		commission := fee.Mul(decimal.NewFromFloat(s.cfg.CommissionRate)).Round(2)

		assignment := &models.OrderAssignment{
			ID:                uuid.New(),
			OrderID:           orderID,
			PartnerID:         partnerID,
			Status:            enums.AssignmentStatusAssigned,
			Type:              assignmentType,
			DeliveryFee:       fee,
			PartnerCommission: commission,
			AssignedAt:        now,
			AssignmentNotes:   notes,
		}
		if assignedByID != uuid.Nil {
			assignment.AssignedByID = &assignedByID
		}

		if _, err := repo.CreateAssignment(ctx, assignment); err != nil {
			if db.IsUniqueViolation(err, "uq_order_assignments_active_order") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already has an active assignment")
			}
			if db.IsUniqueViolation(err, "uq_order_assignments_active_partner") {
				return errPartnerTaken
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}
		if err := repo.UpdateOrder(ctx, orderID, orderUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if err := partnersRepo.SetBusy(ctx, partnerID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark partner busy")
		}

		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithAssignmentID(ctx, created.ID.String())
	ctx = s.log.WithOrderID(ctx, orderID.String())
	ctx = s.log.WithPartnerID(ctx, partnerID.String())
	s.log.Info(ctx, "assignment created")
	return created, nil
}

func (s *service) Accept(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	return s.transition(ctx, assignmentID, partnerID, func(repo Repository, assignment *models.OrderAssignment, now time.Time) (map[string]any, map[string]any, bool, error) {
		if assignment.Status != enums.AssignmentStatusAssigned {
			return nil, nil, false, pkgerrors.New(pkgerrors.CodeStateConflict, "assignment cannot be accepted in current state")
		}
		updates := map[string]any{
			"status":      enums.AssignmentStatusAccepted,
			"accepted_at": now,
		}
		return updates, nil, false, nil
	})
}

func (s *service) Reject(ctx context.Context, input RejectInput) (*models.OrderAssignment, error) {
	return s.transition(ctx, input.AssignmentID, input.PartnerID, func(repo Repository, assignment *models.OrderAssignment, now time.Time) (map[string]any, map[string]any, bool, error) {
		updates := map[string]any{
			"status":      enums.AssignmentStatusRejected,
			"rejected_at": now,
		}
		if input.Reason != "" {
			updates["rejection_reason"] = input.Reason
		}
		// Rejection reopens the order for reassignment.
		orderUpdates := map[string]any{"status": enums.OrderStatusReadyForPickup}
		return updates, orderUpdates, true, nil
	})
}

func (s *service) MarkPickedUp(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	return s.transition(ctx, assignmentID, partnerID, func(repo Repository, assignment *models.OrderAssignment, now time.Time) (map[string]any, map[string]any, bool, error) {
		switch assignment.Status {
		case enums.AssignmentStatusAssigned, enums.AssignmentStatusAccepted:
		default:
			return nil, nil, false, pkgerrors.New(pkgerrors.CodeStateConflict, "assignment cannot be picked up in current state")
		}
		// A fallback-queued assignment stays queued until the partner's
		// current delivery completes; one physical ride at a time.
		if _, err := repo.FindInFlightByPartner(ctx, partnerID); err == nil {
			return nil, nil, false, pkgerrors.New(pkgerrors.CodeStateConflict, "partner already has a delivery in transit")
		} else if err != gorm.ErrRecordNotFound {
			return nil, nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check in-flight assignments")
		}
		// Pickup folds straight into transit.
		updates := map[string]any{
			"status":      enums.AssignmentStatusInTransit,
			"pickup_time": now,
		}
		orderUpdates := map[string]any{"status": enums.OrderStatusOutForDelivery}
		return updates, orderUpdates, false, nil
	})
}

func (s *service) MarkDelivered(ctx context.Context, input DeliverInput) (*models.OrderAssignment, error) {
	assignment, err := s.transition(ctx, input.AssignmentID, input.PartnerID, func(repo Repository, assignment *models.OrderAssignment, now time.Time) (map[string]any, map[string]any, bool, error) {
		switch assignment.Status {
		case enums.AssignmentStatusPickedUp, enums.AssignmentStatusInTransit:
		default:
			return nil, nil, false, pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been picked up yet")
		}
		updates := map[string]any{
			"status":       enums.AssignmentStatusDelivered,
			"delivered_at": now,
		}
		if input.Notes != nil {
			updates["delivery_notes"] = *input.Notes
		}
		orderUpdates := map[string]any{
			"status":       enums.OrderStatusDelivered,
			"delivered_at": now,
		}
		return updates, orderUpdates, true, nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchDeliveryNotification(ctx, assignment)
	return assignment, nil
}

// transition runs one partner-gated state change. mutate returns the
// assignment updates, optional order updates, and whether the transition
// ends the assignment (freeing the partner and crediting earnings on
// delivery).
func (s *service) transition(
	ctx context.Context,
	assignmentID, partnerID uuid.UUID,
	mutate func(repo Repository, assignment *models.OrderAssignment, now time.Time) (map[string]any, map[string]any, bool, error),
) (*models.OrderAssignment, error) {
	if assignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "partner identity missing")
	}

	// Resolve the order to build the lock set; guards run again inside.
	preflight, err := s.repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	s.locks.Lock(preflight.OrderID, preflight.PartnerID)
	defer s.locks.Unlock(preflight.OrderID, preflight.PartnerID)

	var result *models.OrderAssignment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		partnersRepo := s.partners.WithTx(tx)

		assignment, err := repo.FindAssignment(ctx, assignmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
		}
		if assignment.PartnerID != partnerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "assignment belongs to another partner")
		}
		if assignment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is already closed")
		}

		now := s.now()
		updates, orderUpdates, terminal, err := mutate(repo, assignment, now)
		if err != nil {
			return err
		}

		if err := repo.UpdateAssignment(ctx, assignment.ID, updates); err != nil {
			// Backstop for the partial unique index on the partner's
			// in-flight assignments.
			if db.IsUniqueViolation(err, "uq_order_assignments_active_partner") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "partner already has a delivery in transit")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
		}
		if orderUpdates != nil {
			if err := repo.UpdateOrder(ctx, assignment.OrderID, orderUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
		}

		if terminal {
			newStatus, _ := updates["status"].(enums.AssignmentStatus)
			if newStatus == enums.AssignmentStatusDelivered {
				if err := partnersRepo.AddEarnings(ctx, partnerID, assignment.PartnerCommission); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit partner earnings")
				}
			}
			// Free the partner unless the fallback queued another
			// assignment behind this one.
			if _, err := repo.FindActiveByPartner(ctx, partnerID); err == gorm.ErrRecordNotFound {
				if err := partnersRepo.SetFree(ctx, partnerID, now); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark partner free")
				}
			} else if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check partner assignment")
			}
		}

		reloaded, err := repo.FindAssignment(ctx, assignmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload assignment")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(result.Status))
	ctx = s.log.WithAssignmentID(ctx, result.ID.String())
	ctx = s.log.WithPartnerID(ctx, partnerID.String())
	s.log.Info(ctx, "assignment "+string(result.Status))
	return result, nil
}

func (s *service) Rate(ctx context.Context, input RateInput) (*models.OrderAssignment, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var result *models.OrderAssignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindAssignment(ctx, input.AssignmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
		}
		if assignment.Order == nil || assignment.Order.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "assignment does not belong to customer")
		}
		if assignment.Status != enums.AssignmentStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only delivered orders can be rated")
		}
		if assignment.CustomerRating != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment has already been rated")
		}

		if err := repo.UpdateAssignment(ctx, assignment.ID, map[string]any{"customer_rating": input.Rating}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store rating")
		}
		assignment.CustomerRating = &input.Rating
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) CurrentForPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	assignment, err := s.repo.FindActiveByPartner(ctx, partnerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active assignment")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active assignment")
	}
	return assignment, nil
}

func (s *service) HistoryForPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (*HistoryPage, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	assignments, nextCursor, err := s.repo.ListByPartner(ctx, partnerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return &HistoryPage{Assignments: assignments, NextCursor: nextCursor}, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAssignment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	assignments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return assignments, nil
}

func (s *service) StatsForPartner(ctx context.Context, partnerID uuid.UUID) (*PartnerStats, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	stats, err := s.repo.PartnerStats(ctx, partnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner stats")
	}
	return stats, nil
}

// dispatchDeliveryNotification hands the completed delivery to the
// notification collaborator without blocking or failing the transition.
func (s *service) dispatchDeliveryNotification(ctx context.Context, assignment *models.OrderAssignment) {
	if assignment.Order == nil {
		return
	}

	event := DeliveryCompletedEvent{
		OrderID:       assignment.OrderID,
		OrderNumber:   assignment.Order.OrderNumber,
		CustomerID:    assignment.Order.CustomerID,
		CustomerPhone: assignment.Order.CustomerPhone,
	}
	if assignment.Partner != nil {
		event.PartnerName = assignment.Partner.FullName()
	}
	if assignment.Order.Shop != nil {
		event.ShopName = assignment.Order.Shop.Name
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		nctx, cancel := context.WithTimeout(bg, 10*time.Second)
		defer cancel()
		if err := s.notifier.DeliveryCompleted(nctx, event); err != nil {
			s.log.Error(nctx, "delivery notification dispatch failed", err)
		}
	}()
}
