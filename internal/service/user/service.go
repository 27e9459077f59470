package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepository}
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.ToResponse(u), nil
}

// ListManagers implements user.UserService.
func (s *UserServiceImpl) ListManagers(ctx context.Context) ([]user.ManagerSummary, error) {
	managers, err := s.UserRepository.ListByRole(ctx, user.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	out := make([]user.ManagerSummary, 0, len(managers))
	for _, m := range managers {
		out = append(out, user.ManagerSummary{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return out, nil
}

// ListMyEmployees implements user.UserService.
func (s *UserServiceImpl) ListMyEmployees(ctx context.Context, managerID string) ([]user.UserResponse, error) {
	team, err := s.UserRepository.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]user.UserResponse, 0, len(team))
	for _, u := range team {
		out = append(out, user.ToResponse(u))
	}
	return out, nil
}

// EnsureTeamMember implements user.UserService.
func (s *UserServiceImpl) EnsureTeamMember(ctx context.Context, managerID, employeeID string) (user.User, error) {
	if !validator.IsValidUUID(employeeID) {
		return user.User{}, user.ErrUserNotFound
	}
	employee, err := s.UserRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !employee.ReportsTo(managerID) {
		return user.User{}, user.ErrNotTeamMember
	}
	return employee, nil
}
