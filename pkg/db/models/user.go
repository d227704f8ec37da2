package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/types"
)

// User represents the canonical identity entity. Delivery-partner users
// additionally carry the online/availability flags the dispatcher reads.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`

	// Dispatch state. IsAvailable and RideStatus always flip together: a
	// partner is either fully free or fully busy.
	IsOnline        bool                  `gorm:"column:is_online;not null;default:false"`
	IsAvailable     bool                  `gorm:"column:is_available;not null;default:false"`
	RideStatus      enums.RideStatus      `gorm:"column:ride_status;type:text;not null;default:'available'"`
	LastActivityAt  *time.Time            `gorm:"column:last_activity_at"`
	CurrentLocation *types.GeographyPoint `gorm:"column:current_location;type:geography(Point,4326)"`
	TotalEarnings   decimal.Decimal       `gorm:"column:total_earnings;type:numeric(12,2);not null;default:0"`

	Settings *PartnerSettings `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the name parts for outbound notification payloads.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
