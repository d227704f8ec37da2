package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/types"
)

// Order is the customer order the dispatcher assigns partners to. The
// assignment engine advances Status between ready_for_pickup,
// out_for_delivery and delivered but does not own the earlier lifecycle.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber int64             `gorm:"column:order_number;not null"`
	CustomerID  uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	ShopID      uuid.UUID         `gorm:"column:shop_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`

	DeliveryAddress  string                `gorm:"column:delivery_address;type:text;not null"`
	DeliveryLocation *types.GeographyPoint `gorm:"column:delivery_location;type:geography(Point,4326)"`
	CustomerPhone    *string               `gorm:"column:customer_phone"`
	DeliveredAt      *time.Time            `gorm:"column:delivered_at"`

	Customer    *User             `gorm:"foreignKey:CustomerID"`
	Shop        *Shop             `gorm:"foreignKey:ShopID"`
	Assignments []OrderAssignment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
