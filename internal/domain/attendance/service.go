package attendance

import (
	"context"
)

type AttendanceService interface {
	MarkEntry(ctx context.Context, userID string, req MarkRequest) (AttendanceResponse, error)
	MarkExit(ctx context.Context, userID string, req MarkRequest) (AttendanceResponse, error)

	// GetToday returns nil when nothing was marked today.
	GetToday(ctx context.Context, userID string) (*AttendanceResponse, error)
	History(ctx context.Context, userID string, filter HistoryFilter) (ListAttendanceResponse, error)
	TeamMemberHistory(ctx context.Context, managerID, employeeID string, filter HistoryFilter) (ListAttendanceResponse, error)

	// AutoCloseOpenRecords closes every record from a previous day still missing an exit.
	AutoCloseOpenRecords(ctx context.Context) (int, error)
}
