package domain

import "time"

// Role is the access level granted to an authenticated operator.
type Role string

const (
	RoleBilling Role = "billing"
	RoleAdmin   Role = "admin"
)

// Capability names an operation gated by role.
type Capability string

const (
	CapCheckout        Capability = "checkout"
	CapManageInventory Capability = "manage_inventory"
	CapViewReports     Capability = "view_reports"
)

var roleCapabilities = map[Role][]Capability{
	RoleBilling: {CapCheckout},
	RoleAdmin:   {CapManageInventory, CapViewReports},
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBilling, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// User is a store operator (cashier or administrator).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
