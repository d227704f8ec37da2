package enums

import "fmt"

// AssignmentType records whether the dispatcher or an admin picked the partner.
type AssignmentType string

const (
	AssignmentTypeAuto   AssignmentType = "auto"
	AssignmentTypeManual AssignmentType = "manual"
)

var validAssignmentTypes = []AssignmentType{
	AssignmentTypeAuto,
	AssignmentTypeManual,
}

// String implements fmt.Stringer.
func (a AssignmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentType.
func (a AssignmentType) IsValid() bool {
	for _, candidate := range validAssignmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssignmentType converts raw input into an AssignmentType.
func ParseAssignmentType(value string) (AssignmentType, error) {
	for _, candidate := range validAssignmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment type %q", value)
}
