package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/townkart/townkart-backend/internal/assignments"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/pagination"
)

// Service defines notification list/read operations plus the dispatch
// entry points the assignment engine and retry worker call into.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	DeliveryCompleted(ctx context.Context, event assignments.DeliveryCompletedEvent) error
	AssignmentStuck(ctx context.Context, input AssignmentStuckInput) error
}

type service struct {
	repo      Repository
	publisher EventPublisher
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// AssignmentStuckInput alerts an admin that dispatch gave up on an order.
type AssignmentStuckInput struct {
	AdminID     uuid.UUID
	OrderID     uuid.UUID
	OrderNumber int64
	Attempts    int
}

// NewService wires notifications dependencies. The publisher may be nil;
// notifications are then stored without a bus event.
func NewService(repo Repository, publisher EventPublisher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, publisher: publisher}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

// DeliveryCompleted stores the customer's in-app notification and pushes
// the event to the bus. Both are attempted even if one fails; the caller
// treats any returned error as log-and-swallow.
func (s *service) DeliveryCompleted(ctx context.Context, event assignments.DeliveryCompletedEvent) error {
	message := fmt.Sprintf("Order #%d was delivered by %s.", event.OrderNumber, event.PartnerName)
	if event.ShopName != "" {
		message = fmt.Sprintf("Order #%d from %s was delivered by %s.", event.OrderNumber, event.ShopName, event.PartnerName)
	}

	var errs error
	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  event.CustomerID,
		Type:    enums.NotificationTypeDeliveryCompleted,
		Title:   "Order delivered",
		Message: message,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("store delivery notification: %w", err))
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, string(enums.NotificationTypeDeliveryCompleted), event); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// AssignmentStuck alerts an admin that auto-assignment ran out of retries
// for an order.
func (s *service) AssignmentStuck(ctx context.Context, input AssignmentStuckInput) error {
	if input.AdminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  input.AdminID,
		Type:    enums.NotificationTypeAssignmentStuck,
		Title:   "Order needs manual assignment",
		Message: fmt.Sprintf("Order #%d could not be auto-assigned after %d attempts.", input.OrderNumber, input.Attempts),
	}

	var errs error
	if err := s.repo.Create(ctx, notification); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("store stuck-assignment notification: %w", err))
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, string(enums.NotificationTypeAssignmentStuck), input); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
