package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/townkart/townkart-backend/pkg/enums"
)

// OrderAssignment links one order to one delivery partner for one attempt.
// Rows are never deleted; rejected and delivered rows stay for history.
type OrderAssignment struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index"`
	PartnerID    uuid.UUID              `gorm:"column:partner_id;type:uuid;not null;index"`
	AssignedByID *uuid.UUID             `gorm:"column:assigned_by_id;type:uuid"`
	Status       enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:'assigned'"`
	Type         enums.AssignmentType   `gorm:"column:type;type:text;not null;default:'auto'"`

	DeliveryFee       decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	PartnerCommission decimal.Decimal `gorm:"column:partner_commission;type:numeric(10,2);not null"`

	AssignedAt  time.Time  `gorm:"column:assigned_at;not null"`
	AcceptedAt  *time.Time `gorm:"column:accepted_at"`
	RejectedAt  *time.Time `gorm:"column:rejected_at"`
	PickupTime  *time.Time `gorm:"column:pickup_time"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`

	AssignmentNotes *string `gorm:"column:assignment_notes"`
	RejectionReason *string `gorm:"column:rejection_reason"`
	DeliveryNotes   *string `gorm:"column:delivery_notes"`
	CustomerRating  *int    `gorm:"column:customer_rating"`

	Order   *Order `gorm:"foreignKey:OrderID"`
	Partner *User  `gorm:"foreignKey:PartnerID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
