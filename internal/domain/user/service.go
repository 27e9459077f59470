package user

import "context"

type UserService interface {
	GetProfile(ctx context.Context, userID string) (UserResponse, error)
	ListManagers(ctx context.Context) ([]ManagerSummary, error)
	ListMyEmployees(ctx context.Context, managerID string) ([]UserResponse, error)

	// EnsureTeamMember returns the employee when it reports to managerID, ErrNotTeamMember otherwise.
	EnsureTeamMember(ctx context.Context, managerID, employeeID string) (User, error)
}
