package notification

import (
	"time"
)

type NotificationType string

const (
	TypeWFHRequested         NotificationType = "wfh_requested"
	TypeWFHApproved          NotificationType = "wfh_approved"
	TypeWFHRejected          NotificationType = "wfh_rejected"
	TypeTaskAssigned         NotificationType = "task_assigned"
	TypeTaskCompleted        NotificationType = "task_completed"
	TypeTaskApproved         NotificationType = "task_approved"
	TypeAttendanceAutoClosed NotificationType = "attendance_auto_closed"
)

// Emailed reports whether a notification of this type is also sent by email.
func (t NotificationType) Emailed() bool {
	switch t {
	case TypeWFHRequested, TypeWFHApproved, TypeWFHRejected:
		return true
	}
	return false
}

type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
