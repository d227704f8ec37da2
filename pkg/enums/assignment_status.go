package enums

import "fmt"

// AssignmentStatus tracks the lifecycle of an order assignment.
// Rejected and delivered are terminal; everything else counts as active.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusRejected  AssignmentStatus = "rejected"
	AssignmentStatusPickedUp  AssignmentStatus = "picked_up"
	AssignmentStatusInTransit AssignmentStatus = "in_transit"
	AssignmentStatusDelivered AssignmentStatus = "delivered"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusAssigned,
	AssignmentStatusAccepted,
	AssignmentStatusRejected,
	AssignmentStatusPickedUp,
	AssignmentStatusInTransit,
	AssignmentStatusDelivered,
}

// ActiveAssignmentStatuses is the set of statuses that hold an order and a
// partner exclusively. At most one assignment per order and per partner may
// be in any of these at a time.
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusAssigned,
	AssignmentStatusAccepted,
	AssignmentStatusPickedUp,
	AssignmentStatusInTransit,
}

// InFlightAssignmentStatuses are the statuses where the partner is physically
// carrying the order. A partner holds at most one of these at a time.
var InFlightAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusPickedUp,
	AssignmentStatusInTransit,
}

// String implements fmt.Stringer.
func (a AssignmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentStatus.
func (a AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (a AssignmentStatus) IsTerminal() bool {
	return a == AssignmentStatusRejected || a == AssignmentStatusDelivered
}

// IsActive reports whether the status occupies the order and partner.
func (a AssignmentStatus) IsActive() bool {
	for _, candidate := range ActiveAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
