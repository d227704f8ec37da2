package enums

import "fmt"

// UserRole identifies what a user can do on the platform. Only users with
// the delivery-partner role are eligible for order assignments.
type UserRole string

const (
	UserRoleCustomer        UserRole = "customer"
	UserRoleShopOwner       UserRole = "shop_owner"
	UserRoleDeliveryPartner UserRole = "delivery_partner"
	UserRoleAdmin           UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleShopOwner,
	UserRoleDeliveryPartner,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
