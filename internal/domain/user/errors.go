package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrManagerRequired       = errors.New("manager ID is required for employees")
	ErrInvalidManager        = errors.New("invalid manager ID, please provide a valid manager ID")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrNotTeamMember         = errors.New("employee does not report to you")
)
