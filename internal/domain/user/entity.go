package user

import "time"

type Role string

const (
	RoleManager  Role = "manager"  // Reviews WFH requests and tasks for their team
	RoleEmployee Role = "employee" // Reports to exactly one manager
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	ManagerID    *string
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager checks if user is a manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// HasManager reports whether an employee has a manager assigned.
func (u *User) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// ReportsTo reports whether managerID is this user's manager.
func (u *User) ReportsTo(managerID string) bool {
	return u.HasManager() && *u.ManagerID == managerID
}
