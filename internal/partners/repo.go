package partners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a partner registry repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.User, error) {
	var partner models.User
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Where("id = ?", partnerID).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) ListAvailablePartners(ctx context.Context) ([]models.User, error) {
	var partners []models.User
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Where("role = ? AND is_active = ? AND is_online = ? AND is_available = ?",
			enums.UserRoleDeliveryPartner, true, true, true).
		Where(
			"NOT EXISTS (SELECT 1 FROM order_assignments WHERE order_assignments.partner_id = users.id AND order_assignments.status IN ?)",
			enums.ActiveAssignmentStatuses,
		).
		Order("created_at ASC").
		Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *repository) ListOnlineBusyPartners(ctx context.Context) ([]models.User, error) {
	var partners []models.User
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Where("role = ? AND is_active = ? AND is_online = ? AND ride_status = ?",
			enums.UserRoleDeliveryPartner, true, true, enums.RideStatusOnRide).
		Order("created_at ASC").
		Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

// SetBusy flips is_available and ride_status in one statement so a partner
// is never observed half-free.
func (r *repository) SetBusy(ctx context.Context, partnerID uuid.UUID, now time.Time) error {
	return r.setDispatchState(ctx, partnerID, false, enums.RideStatusOnRide, now)
}

// SetFree is the inverse of SetBusy.
func (r *repository) SetFree(ctx context.Context, partnerID uuid.UUID, now time.Time) error {
	return r.setDispatchState(ctx, partnerID, true, enums.RideStatusAvailable, now)
}

func (r *repository) setDispatchState(ctx context.Context, partnerID uuid.UUID, available bool, rideStatus enums.RideStatus, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", partnerID).
		Updates(map[string]any{
			"is_available":     available,
			"ride_status":      rideStatus,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetOnline(ctx context.Context, partnerID uuid.UUID, online bool, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", partnerID).
		Updates(map[string]any{
			"is_online":        online,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateLocation(ctx context.Context, partnerID uuid.UUID, location types.GeographyPoint, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", partnerID).
		Updates(map[string]any{
			"current_location": location,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddEarnings(ctx context.Context, partnerID uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", partnerID).
		UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AvailabilityStats(ctx context.Context) (*AvailabilityStats, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("role = ? AND is_active = ?", enums.UserRoleDeliveryPartner, true)
	}

	stats := AvailabilityStats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_online = ?", true).Count(&stats.Online).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_online = ? AND is_available = ?", true, true).Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	if err := base().Where("ride_status = ?", enums.RideStatusOnRide).Count(&stats.OnRide).Error; err != nil {
		return nil, err
	}
	stats.Offline = stats.Total - stats.Online
	return &stats, nil
}

func (r *repository) FindSettings(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	var settings models.PartnerSettings
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) UpsertSettings(ctx context.Context, settings *models.PartnerSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "partner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"work_schedule_enabled",
				"work_start_time",
				"work_end_time",
				"work_days",
				"auto_accept_orders",
				"max_delivery_radius_km",
				"updated_at",
			}),
		}).
		Create(settings).Error
}
