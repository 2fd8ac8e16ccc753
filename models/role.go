package models

import "fmt"

// Role classifies a caller. Closed set; keep switches over Role exhaustive.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleFarmer   Role = "farmer"
	RoleAdmin    Role = "admin"
	RoleGuest    Role = "guest"
)

// ParseRole maps a wire value onto the closed role set.
// Unknown values are rejected rather than defaulted.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleFarmer:
		return RoleFarmer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleGuest:
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CanRegister reports whether self-service signup may pick this role.
func (r Role) CanRegister() bool {
	switch r {
	case RoleCustomer, RoleFarmer:
		return true
	case RoleAdmin, RoleGuest:
		return false
	}
	return false
}
