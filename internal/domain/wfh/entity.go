package wfh

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsDecision reports whether s is a status a manager may respond with.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type WFHRequest struct {
	ID          string
	UserID      string
	ManagerID   string
	Date        time.Time
	Reason      string
	Status      Status
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined from users on list queries.
	EmployeeName  string
	EmployeeEmail string
}
