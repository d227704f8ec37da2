package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/pagination"
)

// Repository defines persistence operations for order assignments and the
// order fields the dispatcher is allowed to touch.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateAssignment(ctx context.Context, assignment *models.OrderAssignment) (*models.OrderAssignment, error)
	FindAssignment(ctx context.Context, id uuid.UUID) (*models.OrderAssignment, error)
	FindActiveByOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderAssignment, error)
	FindActiveByPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error)
	FindInFlightByPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAssignment, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.OrderAssignment, *string, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CompletionCounts(ctx context.Context, partnerID uuid.UUID) (completed int64, total int64, err error)
	PartnerStats(ctx context.Context, partnerID uuid.UUID) (*PartnerStats, error)

	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListUnassignedReadyOrders(ctx context.Context, since time.Time, limit int) ([]models.Order, error)
}
