package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an assignments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.OrderAssignment) (*models.OrderAssignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) FindAssignment(ctx context.Context, id uuid.UUID) (*models.OrderAssignment, error) {
	var assignment models.OrderAssignment
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Shop").
		Preload("Partner").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) FindActiveByOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderAssignment, error) {
	var assignment models.OrderAssignment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, enums.ActiveAssignmentStatuses).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) FindActiveByPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	// The fallback can queue a second active row behind an in-transit
	// delivery; surface the ride in progress first, then the oldest queued.
	var assignment models.OrderAssignment
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Shop").
		Where("partner_id = ? AND status IN ?", partnerID, enums.ActiveAssignmentStatuses).
		Order("CASE WHEN status IN ('picked_up', 'in_transit') THEN 0 ELSE 1 END, assigned_at ASC").
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) FindInFlightByPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	var assignment models.OrderAssignment
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND status IN ?", partnerID, enums.InFlightAssignmentStatuses).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) UpdateAssignment(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAssignment, error) {
	var assignments []models.OrderAssignment
	err := r.db.WithContext(ctx).
		Preload("Partner").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) ([]models.OrderAssignment, *string, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("Order").
		Where("partner_id = ?", partnerID)

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, nil, err
		}
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var assignments []models.OrderAssignment
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&assignments).Error
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(assignments) > normalized {
		boundary := assignments[normalized]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: boundary.CreatedAt, ID: boundary.ID})
		nextCursor = &encoded
		assignments = assignments[:normalized]
	}
	return assignments, nextCursor, nil
}

func (r *repository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func (r *repository) CompletionCounts(ctx context.Context, partnerID uuid.UUID) (int64, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Where("partner_id = ?", partnerID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var completed int64
	err = r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Where("partner_id = ? AND status = ?", partnerID, enums.AssignmentStatusDelivered).
		Count(&completed).Error
	if err != nil {
		return 0, 0, err
	}
	return completed, total, nil
}

func (r *repository) PartnerStats(ctx context.Context, partnerID uuid.UUID) (*PartnerStats, error) {
	completed, total, err := r.CompletionCounts(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	var rejected int64
	err = r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Where("partner_id = ? AND status = ?", partnerID, enums.AssignmentStatusRejected).
		Count(&rejected).Error
	if err != nil {
		return nil, err
	}

	stats := &PartnerStats{
		Completed:     completed,
		Rejected:      rejected,
		Total:         total,
		TotalEarnings: decimal.Zero,
	}

	var avgRating *float64
	err = r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Select("AVG(customer_rating)").
		Where("partner_id = ? AND customer_rating IS NOT NULL", partnerID).
		Scan(&avgRating).Error
	if err != nil {
		return nil, err
	}
	stats.AverageRating = avgRating

	var earnings decimal.NullDecimal
	err = r.db.WithContext(ctx).
		Model(&models.OrderAssignment{}).
		Select("SUM(partner_commission)").
		Where("partner_id = ? AND status = ?", partnerID, enums.AssignmentStatusDelivered).
		Scan(&earnings).Error
	if err != nil {
		return nil, err
	}
	if earnings.Valid {
		stats.TotalEarnings = earnings.Decimal
	}
	return stats, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Customer").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListUnassignedReadyOrders(ctx context.Context, since time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.OrderStatusReadyForPickup).
		Where("created_at >= ?", since).
		Where(
			"NOT EXISTS (SELECT 1 FROM order_assignments WHERE order_assignments.order_id = orders.id AND order_assignments.status IN ?)",
			enums.ActiveAssignmentStatuses,
		).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
