package user

import "context"

// UserRepository defines data access for users. Lookups return ErrUserNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	LinkGoogleAccount(ctx context.Context, id string, googleID string) (User, error)

	// ListByRole returns users with the given role ordered by name.
	ListByRole(ctx context.Context, role Role) ([]User, error)

	// ListByManager returns the direct reports of managerID ordered by name.
	ListByManager(ctx context.Context, managerID string) ([]User, error)
}
