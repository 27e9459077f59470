package dashboard

import (
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
)

type EmployeeDashboardResponse struct {
	Date              string                         `json:"date"`
	Today             *attendance.AttendanceResponse `json:"today"`
	TodayWFHStatus    *wfh.Status                    `json:"today_wfh_status"`
	PendingTasks      int                            `json:"pending_tasks"`
	TasksInReview     int                            `json:"tasks_in_review"`
	RecentWFHRequests []wfh.WFHResponse              `json:"recent_wfh_requests"`
}

type TeamMemberStatus struct {
	UserID    string            `json:"user_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Status    attendance.Status `json:"status"`
	IsWFH     bool              `json:"is_wfh"`
	EntryTime *time.Time        `json:"entry_time,omitempty"`
	ExitTime  *time.Time        `json:"exit_time,omitempty"`
}

type ManagerDashboardResponse struct {
	Date                string             `json:"date"`
	TeamSize            int                `json:"team_size"`
	PresentToday        int                `json:"present_today"`
	Team                []TeamMemberStatus `json:"team"`
	PendingWFHRequests  int                `json:"pending_wfh_requests"`
	TasksAwaitingReview int                `json:"tasks_awaiting_review"`
}
