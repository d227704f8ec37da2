package models

import (
	"time"

	"github.com/google/uuid"
)

// PartnerSettings holds per-partner dispatch preferences. WorkDays is a
// comma-separated list of ISO weekday numbers ("1,2,3,4,5" = Mon-Fri).
type PartnerSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID uuid.UUID `gorm:"column:partner_id;type:uuid;not null;uniqueIndex"`

	WorkScheduleEnabled bool    `gorm:"column:work_schedule_enabled;not null;default:false"`
	WorkStartTime       *string `gorm:"column:work_start_time"`
	WorkEndTime         *string `gorm:"column:work_end_time"`
	WorkDays            *string `gorm:"column:work_days"`

	AutoAcceptOrders    bool     `gorm:"column:auto_accept_orders;not null;default:false"`
	MaxDeliveryRadiusKm *float64 `gorm:"column:max_delivery_radius_km"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
