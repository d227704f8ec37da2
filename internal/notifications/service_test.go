package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/internal/assignments"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	paginationpkg "github.com/townkart/townkart-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn      func(ctx context.Context, notification *models.Notification) error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakePublisher struct {
	publishFn func(ctx context.Context, eventType string, payload any) error
	published []string
}

func (f *fakePublisher) Publish(ctx context.Context, eventType string, payload any) error {
	f.published = append(f.published, eventType)
	if f.publishFn != nil {
		return f.publishFn(ctx, eventType, payload)
	}
	return nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo, nil)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	first := models.Notification{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	second := models.Notification{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if params.Limit != 1 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("cursor should round-trip: %v", err)
	}
	if decoded.ID != second.ID {
		t.Fatalf("expected cursor id %s, got %s", second.ID, decoded.ID)
	}
}

func TestService_ListRequiresUser(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{})
	if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "not-a-cursor"})
	if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 3, nil
		},
	}

	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated rows, got %d", count)
	}
}

func TestService_DeliveryCompletedStoresAndPublishes(t *testing.T) {
	customerID := uuid.New()
	var stored *models.Notification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			stored = notification
			return nil
		},
	}
	publisher := &fakePublisher{}

	svc, err := NewService(repo, publisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := assignments.DeliveryCompletedEvent{
		OrderID:     uuid.New(),
		OrderNumber: 1042,
		CustomerID:  customerID,
		PartnerName: "Ravi Kumar",
		ShopName:    "Corner Store",
	}
	if err := svc.DeliveryCompleted(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil {
		t.Fatal("expected notification row")
	}
	if stored.UserID != customerID {
		t.Fatalf("notification should target the customer, got %s", stored.UserID)
	}
	if stored.Type != enums.NotificationTypeDeliveryCompleted {
		t.Fatalf("unexpected notification type %s", stored.Type)
	}
	if !strings.Contains(stored.Message, "#1042") || !strings.Contains(stored.Message, "Corner Store") {
		t.Fatalf("unexpected message %q", stored.Message)
	}
	if len(publisher.published) != 1 || publisher.published[0] != string(enums.NotificationTypeDeliveryCompleted) {
		t.Fatalf("expected one delivery_completed event, got %v", publisher.published)
	}
}

func TestService_DeliveryCompletedPublishesDespiteStoreFailure(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			return errors.New("db down")
		},
	}
	publisher := &fakePublisher{}

	svc, err := NewService(repo, publisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.DeliveryCompleted(context.Background(), assignments.DeliveryCompletedEvent{
		OrderNumber: 7,
		CustomerID:  uuid.New(),
		PartnerName: "Ravi Kumar",
	})
	if err == nil {
		t.Fatal("expected store error to surface")
	}
	if len(publisher.published) != 1 {
		t.Fatalf("publish should still be attempted, got %v", publisher.published)
	}
}

func TestService_AssignmentStuck(t *testing.T) {
	adminID := uuid.New()
	var stored *models.Notification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			stored = notification
			return nil
		},
	}

	svc := newServiceWithRepo(repo)
	err := svc.AssignmentStuck(context.Background(), AssignmentStuckInput{
		AdminID:     adminID,
		OrderID:     uuid.New(),
		OrderNumber: 88,
		Attempts:    5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.UserID != adminID {
		t.Fatalf("expected notification for admin, got %+v", stored)
	}
	if stored.Type != enums.NotificationTypeAssignmentStuck {
		t.Fatalf("unexpected type %s", stored.Type)
	}
	if !strings.Contains(stored.Message, "#88") || !strings.Contains(stored.Message, "5 attempts") {
		t.Fatalf("unexpected message %q", stored.Message)
	}
}

func TestService_AssignmentStuckRequiresAdmin(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	err := svc.AssignmentStuck(context.Background(), AssignmentStuckInput{OrderNumber: 1})
	if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
