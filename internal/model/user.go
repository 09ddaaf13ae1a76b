package model

import "time"

// Role enumerates the authorisation tiers of the system.  CUSTOMER
// creates bookings; ADMIN1 through ADMIN3 operate the three approval
// levels; SUPERADMIN may inspect every admin queue but holds no row in
// the transition table and therefore cannot move a booking.
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleAdmin1     Role = "ADMIN1"
	RoleAdmin2     Role = "ADMIN2"
	RoleAdmin3     Role = "ADMIN3"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// AdminRoles lists every role allowed onto the admin surface.
var AdminRoles = []Role{RoleAdmin1, RoleAdmin2, RoleAdmin3, RoleSuperAdmin}

// IsValid reports whether r is a recognised role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin1, RoleAdmin2, RoleAdmin3, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r belongs to the admin surface.
func (r Role) IsAdmin() bool {
	for _, a := range AdminRoles {
		if r == a {
			return true
		}
	}
	return false
}

// User represents an application user record as stored in the `users`
// table.  Handlers define separate response types; this struct maps
// columns one to one.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – authorisation tier (CUSTOMER, ADMIN1..3, SUPERADMIN).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
