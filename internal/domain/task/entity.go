package task

import "time"

type AssignmentStatus string

const (
	StatusPending       AssignmentStatus = "pending"
	StatusPendingReview AssignmentStatus = "pending_review"
	StatusApproved      AssignmentStatus = "approved"
	// StatusCompleted is accepted on read for legacy rows and never written.
	StatusCompleted AssignmentStatus = "completed"
)

type Task struct {
	ID          string
	Title       string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// Assignment links one task to one employee. Status only moves forward.
type Assignment struct {
	ID            string
	TaskID        string
	EmployeeID    string
	AssignedBy    string
	Status        AssignmentStatus
	AssignedAt    time.Time
	CompletedDate *time.Time
	ApprovedDate  *time.Time

	// Joined on read.
	TaskTitle       string
	TaskDescription string
	EmployeeName    string
	EmployeeEmail   string
}
