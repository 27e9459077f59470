package task

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidEmployee    = errors.New("invalid employee")
	ErrAlreadyAssigned    = errors.New("task is already assigned to this employee")
	ErrAssignmentNotFound = errors.New("task assignment not found")
	ErrNotPending         = errors.New("task is not pending")
	ErrSelfReview         = errors.New("you cannot approve your own task")
	ErrNotPendingReview   = errors.New("task is not pending review")
	ErrNoManagerAssigned  = errors.New("no manager assigned to your account")

	// ErrStatusChanged is returned by the repository when a conditional transition matched no row.
	ErrStatusChanged = errors.New("assignment status changed")
)
