package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// UpsertEntry creates the day's record or fills an entry-less one.
	// Returns ErrAlreadyMarked when the day already has an entry.
	UpsertEntry(ctx context.Context, record Attendance) (Attendance, error)

	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// CloseExit writes exit fields only while exit_time is still NULL.
	// Returns ErrAlreadyMarked when another exit got there first.
	CloseExit(ctx context.Context, record Attendance) (Attendance, error)

	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListOpenBefore returns records with an entry and no exit dated before date.
	ListOpenBefore(ctx context.Context, date time.Time) ([]Attendance, error)

	ListByUsersAndDate(ctx context.Context, userIDs []string, date time.Time) ([]Attendance, error)
}
