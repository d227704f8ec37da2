package assignments

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/townkart/townkart-backend/pkg/db/models"
)

// AutoAssignInput requests dispatcher-driven selection for an order.
type AutoAssignInput struct {
	OrderID      uuid.UUID
	AssignedByID uuid.UUID
	Notes        *string
}

// ManualAssignInput pins an order on an admin-chosen partner.
type ManualAssignInput struct {
	OrderID      uuid.UUID
	PartnerID    uuid.UUID
	AssignedByID uuid.UUID
	Notes        *string
}

// RejectInput records a partner declining their assignment.
type RejectInput struct {
	AssignmentID uuid.UUID
	PartnerID    uuid.UUID
	Reason       string
}

// DeliverInput completes an assignment.
type DeliverInput struct {
	AssignmentID uuid.UUID
	PartnerID    uuid.UUID
	Notes        *string
}

// RateInput attaches the customer's rating to a delivered assignment.
type RateInput struct {
	AssignmentID uuid.UUID
	CustomerID   uuid.UUID
	Rating       int
}

// PartnerStats aggregates a partner's assignment history for reporting.
type PartnerStats struct {
	Completed     int64           `json:"completed"`
	Rejected      int64           `json:"rejected"`
	Total         int64           `json:"total"`
	AverageRating *float64        `json:"average_rating,omitempty"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

// HistoryPage is one page of a partner's assignment history.
type HistoryPage struct {
	Assignments []models.OrderAssignment `json:"assignments"`
	NextCursor  *string                  `json:"next_cursor,omitempty"`
}

// DeliveryCompletedEvent is handed to the notification collaborator after a
// successful delivery. Dispatch is best-effort.
type DeliveryCompletedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   int64     `json:"order_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerPhone *string   `json:"customer_phone,omitempty"`
	PartnerName   string    `json:"partner_name"`
	ShopName      string    `json:"shop_name"`
}
