package partners

import (
	"github.com/shopspring/decimal"
)

// AvailabilityStats summarizes the delivery fleet for dashboards.
type AvailabilityStats struct {
	Total     int64 `json:"total"`
	Online    int64 `json:"online"`
	Available int64 `json:"available"`
	OnRide    int64 `json:"on_ride"`
	Offline   int64 `json:"offline"`
}

// UpdateSettingsInput carries a partner's dispatch preferences.
type UpdateSettingsInput struct {
	WorkScheduleEnabled bool
	WorkStartTime       *string
	WorkEndTime         *string
	WorkDays            *string
	AutoAcceptOrders    bool
	MaxDeliveryRadiusKm *float64
}

// Earnings pairs a partner with their accumulated commission total.
type Earnings struct {
	PartnerID string          `json:"partner_id"`
	Total     decimal.Decimal `json:"total"`
}
