package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, user_id, date, entry_time, exit_time,
	entry_latitude, entry_longitude, exit_latitude, exit_longitude,
	total_duration_minutes, status, is_wfh, auto_entry, auto_exit,
	created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.EntryTime, &att.ExitTime,
		&att.EntryLocation.Latitude, &att.EntryLocation.Longitude,
		&att.ExitLocation.Latitude, &att.ExitLocation.Longitude,
		&att.TotalDurationMinutes, &att.Status, &att.IsWFH, &att.AutoEntry, &att.AutoExit,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

// UpsertEntry implements attendance.AttendanceRepository.
// The conflict branch only fires for a row that has no entry yet, so two racing entries cannot both win.
func (a *attendanceRepository) UpsertEntry(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, date, entry_time, entry_latitude, entry_longitude, status, is_wfh, auto_entry
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			entry_time      = EXCLUDED.entry_time,
			entry_latitude  = EXCLUDED.entry_latitude,
			entry_longitude = EXCLUDED.entry_longitude,
			status          = EXCLUDED.status,
			is_wfh          = EXCLUDED.is_wfh,
			auto_entry      = EXCLUDED.auto_entry,
			updated_at      = NOW()
		WHERE attendances.entry_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		record.UserID,
		dateParam(record.Date),
		record.EntryTime,
		record.EntryLocation.Latitude,
		record.EntryLocation.Longitude,
		record.Status,
		record.IsWFH,
		record.AutoEntry,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert entry: %w", err)
	}
	return saved, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2::date`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return att, nil
}

// CloseExit implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseExit(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			exit_time              = $2,
			exit_latitude          = $3,
			exit_longitude         = $4,
			total_duration_minutes = $5,
			status                 = $6,
			auto_exit              = $7,
			updated_at             = NOW()
		WHERE id = $1 AND entry_time IS NOT NULL AND exit_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID,
		record.ExitTime,
		record.ExitLocation.Latitude,
		record.ExitLocation.Longitude,
		record.TotalDurationMinutes,
		record.Status,
		record.AutoExit,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	return saved, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "WHERE user_id = $1"
	args := []any{userID}
	argIdx := 2

	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d::date", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d::date", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM attendances %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.PageSize, filter.Offset())

	records, err := a.list(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date < $1::date AND entry_time IS NOT NULL AND exit_time IS NULL
		ORDER BY date`
	return a.list(ctx, query, dateParam(date))
}

// ListByUsersAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUsersAndDate(ctx context.Context, userIDs []string, date time.Time) ([]attendance.Attendance, error) {
	if len(userIDs) == 0 {
		return []attendance.Attendance{}, nil
	}
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = ANY($1::uuid[]) AND date = $2::date`
	return a.list(ctx, query, userIDs, dateParam(date))
}
