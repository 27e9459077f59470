package user

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	user.UserRepository
	getByIDFn       func(ctx context.Context, id string) (user.User, error)
	listByRoleFn    func(ctx context.Context, role user.Role) ([]user.User, error)
	listByManagerFn func(ctx context.Context, managerID string) ([]user.User, error)
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return f.listByRoleFn(ctx, role)
}

func (f *fakeRepo) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	return f.listByManagerFn(ctx, managerID)
}

func TestListManagers(t *testing.T) {
	var askedFor user.Role
	svc := NewUserService(&fakeRepo{listByRoleFn: func(ctx context.Context, role user.Role) ([]user.User, error) {
		askedFor = role
		return []user.User{{ID: "m1", Name: "Meera", Email: "meera@example.com", Role: user.RoleManager}}, nil
	}})

	managers, err := svc.ListManagers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, askedFor)
	assert.Equal(t, []user.ManagerSummary{{ID: "m1", Name: "Meera", Email: "meera@example.com"}}, managers)
}

func TestListMyEmployees_WrapsErrors(t *testing.T) {
	svc := NewUserService(&fakeRepo{listByManagerFn: func(ctx context.Context, managerID string) ([]user.User, error) {
		return nil, errors.New("db down")
	}})

	_, err := svc.ListMyEmployees(context.Background(), "m1")
	assert.ErrorContains(t, err, "db down")
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewUserService(&fakeRepo{getByIDFn: func(ctx context.Context, id string) (user.User, error) {
		return user.User{}, user.ErrUserNotFound
	}})

	_, err := svc.GetProfile(context.Background(), "u1")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEnsureTeamMember(t *testing.T) {
	managerID := uuid.NewString()
	employeeID := uuid.NewString()
	svc := NewUserService(&fakeRepo{getByIDFn: func(ctx context.Context, id string) (user.User, error) {
		if id != employeeID {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{ID: employeeID, Role: user.RoleEmployee, ManagerID: &managerID}, nil
	}})

	got, err := svc.EnsureTeamMember(context.Background(), managerID, employeeID)
	require.NoError(t, err)
	assert.Equal(t, employeeID, got.ID)

	_, err = svc.EnsureTeamMember(context.Background(), uuid.NewString(), employeeID)
	assert.ErrorIs(t, err, user.ErrNotTeamMember)

	_, err = svc.EnsureTeamMember(context.Background(), managerID, "nope")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
