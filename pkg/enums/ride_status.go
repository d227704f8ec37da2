package enums

import "fmt"

// RideStatus mirrors a delivery partner's availability flag. The two fields
// move together: an available partner is never on_ride and vice versa.
type RideStatus string

const (
	RideStatusAvailable RideStatus = "available"
	RideStatusOnRide    RideStatus = "on_ride"
)

var validRideStatuses = []RideStatus{
	RideStatusAvailable,
	RideStatusOnRide,
}

// String implements fmt.Stringer.
func (r RideStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RideStatus.
func (r RideStatus) IsValid() bool {
	for _, candidate := range validRideStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRideStatus converts raw input into a RideStatus.
func ParseRideStatus(value string) (RideStatus, error) {
	for _, candidate := range validRideStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ride status %q", value)
}
