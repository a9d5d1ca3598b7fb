package domain

import "time"

// Role identifies which dashboard a user belongs to.
type Role string

const (
	RoleStudent       Role = "student"
	RoleSecurityGuard Role = "SecurityGuard"
	RoleAmbulance     Role = "ambulance"
)

// RoleDashboards maps each role to its single allowed landing path.
// Read-only after process start.
var RoleDashboards = map[Role]string{
	RoleStudent:       "/dashboard/student",
	RoleSecurityGuard: "/dashboard/SecurityGuard",
	RoleAmbulance:     "/dashboard/ambulance",
}

// Valid reports whether the role is one of the enumerated set.
func (r Role) Valid() bool {
	_, ok := RoleDashboards[r]
	return ok
}

// DashboardPath returns the landing path for the role. The second return
// value is false for roles outside the enumerated set.
func (r Role) DashboardPath() (string, bool) {
	path, ok := RoleDashboards[r]
	return path, ok
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-visible projection of a user record.
// It never carries the password hash.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public returns the client-visible projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
