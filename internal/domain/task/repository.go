package task

import (
	"context"
	"time"
)

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context) ([]Task, error)
}

type AssignmentRepository interface {
	// Create returns ErrAlreadyAssigned on a duplicate (task, employee) pair.
	Create(ctx context.Context, a Assignment) (Assignment, error)
	Get(ctx context.Context, taskID, employeeID string) (Assignment, error)
	// GetEarliest returns the first assignment made for taskID.
	GetEarliest(ctx context.Context, taskID string) (Assignment, error)

	// Transition sets status to "to" only while it is still "from", stamping at.
	// Returns ErrStatusChanged when the row was not in "from".
	Transition(ctx context.Context, id string, from, to AssignmentStatus, at time.Time) (Assignment, error)

	ListByTask(ctx context.Context, taskID string) ([]Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Assignment, error)
	ListByEmployees(ctx context.Context, employeeIDs []string) ([]Assignment, error)
	ListAll(ctx context.Context) ([]Assignment, error)

	CountByEmployeeAndStatus(ctx context.Context, employeeID string, status AssignmentStatus) (int, error)
	// CountAwaitingReview counts pending_review assignments of managerID's team.
	CountAwaitingReview(ctx context.Context, managerID string) (int, error)
}
