package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/townkart/townkart-backend/pkg/types"
)

// Shop is the pickup point for delivery orders.
type Shop struct {
	ID       uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID  uuid.UUID             `gorm:"column:owner_id;type:uuid;not null"`
	Name     string                `gorm:"type:text;not null"`
	Phone    *string               `gorm:"column:phone"`
	Address  string                `gorm:"type:text;not null"`
	Location *types.GeographyPoint `gorm:"column:location;type:geography(Point,4326)"`
	IsActive bool                  `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
