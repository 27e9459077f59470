package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// Policy is the office perimeter and presence rule applied to every mark.
type Policy struct {
	Fence           geo.Fence
	Location        *time.Location
	MinimumPresence time.Duration
}

// WFHChecker answers whether a user may work remotely on a date.
type WFHChecker interface {
	HasApprovedWFH(ctx context.Context, userID string, date time.Time) (bool, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	wfh      WFHChecker
	notifier notification.Notifier
	policy   Policy
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	wfhChecker WFHChecker,
	notifier notification.Notifier,
	policy Policy,
) *AttendanceServiceImpl {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		wfh:                  wfhChecker,
		notifier:             notifier,
		policy:               policy,
		now:                  time.Now,
	}
}

// gate enforces the location rule unless the user has approved WFH for date.
func (s *AttendanceServiceImpl) gate(ctx context.Context, userID string, date time.Time, location *geo.Point) (bool, error) {
	approved, err := s.wfh.HasApprovedWFH(ctx, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check WFH approval: %w", err)
	}
	if approved {
		return true, nil
	}
	if location == nil {
		return false, attendance.ErrMissingLocation
	}
	if !s.policy.Fence.Contains(*location) {
		slog.Debug("Attendance outside geofence", "user_id", userID, "distance_m", s.policy.Fence.DistanceFrom(*location))
		return false, attendance.ErrOutsideGeofence
	}
	return false, nil
}

func locationOrOrigin(p *geo.Point) geo.Point {
	if p == nil {
		return geo.Origin
	}
	return *p
}

// MarkEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkEntry(ctx context.Context, userID string, req attendance.MarkRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := attendance.DateOf(now, s.policy.Location)

	isWFH, err := s.gate(ctx, userID, today, req.Location)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	saved, err := s.AttendanceRepository.UpsertEntry(ctx, attendance.Attendance{
		UserID:        userID,
		Date:          today,
		EntryTime:     &now,
		EntryLocation: locationOrOrigin(req.Location),
		Status:        attendance.StatusPartial,
		IsWFH:         isWFH,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record entry: %w", err)
	}

	return attendance.ToResponse(saved), nil
}

// MarkExit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkExit(ctx context.Context, userID string, req attendance.MarkRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := attendance.DateOf(now, s.policy.Location)

	if _, err := s.gate(ctx, userID, today, req.Location); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoEntryFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if !record.HasEntry() {
		return attendance.AttendanceResponse{}, attendance.ErrNoEntryFound
	}
	if record.HasExit() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyMarked
	}

	record.ExitTime = &now
	record.ExitLocation = locationOrOrigin(req.Location)
	record.TotalDurationMinutes, record.Status = attendance.Summarize(*record.EntryTime, now, s.policy.MinimumPresence)

	saved, err := s.AttendanceRepository.CloseExit(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record exit: %w", err)
	}

	return attendance.ToResponse(saved), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (*attendance.AttendanceResponse, error) {
	today := attendance.DateOf(s.now(), s.policy.Location)
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	resp := attendance.ToResponse(record)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewListResponse(records, total, filter), nil
}

// TeamMemberHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TeamMemberHistory(ctx context.Context, managerID, employeeID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return attendance.ListAttendanceResponse{}, user.ErrUserNotFound
	}
	employee, err := s.UserRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.ListAttendanceResponse{}, err
		}
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !employee.ReportsTo(managerID) {
		return attendance.ListAttendanceResponse{}, user.ErrNotTeamMember
	}

	return s.History(ctx, employeeID, filter)
}

// AutoCloseOpenRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoCloseOpenRecords(ctx context.Context) (int, error) {
	today := attendance.DateOf(s.now(), s.policy.Location)

	open, err := s.AttendanceRepository.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendance: %w", err)
	}

	closed := 0
	var errs []error
	for _, record := range open {
		exit := attendance.EndOfDay(record.Date, s.policy.Location)
		if exit.Before(*record.EntryTime) {
			exit = *record.EntryTime
		}
		record.ExitTime = &exit
		record.ExitLocation = geo.Origin
		record.AutoExit = true
		record.TotalDurationMinutes, record.Status = attendance.Summarize(*record.EntryTime, exit, s.policy.MinimumPresence)

		saved, err := s.AttendanceRepository.CloseExit(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyMarked) {
				continue
			}
			errs = append(errs, fmt.Errorf("close attendance %s: %w", record.ID, err))
			continue
		}
		closed++

		date := saved.Date.Format(validator.DateLayout)
		if err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: saved.UserID,
			Type:        notification.TypeAttendanceAutoClosed,
			Title:       "Attendance closed automatically",
			Message:     fmt.Sprintf("You did not mark exit on %s, so it was recorded at end of day.", date),
			Data: map[string]interface{}{
				"attendance_id": saved.ID,
				"date":          date,
			},
		}); err != nil {
			slog.Warn("Failed to queue auto-close notification", "user_id", saved.UserID, "error", err)
		}
	}

	if closed > 0 {
		slog.Info("Auto-closed open attendance records", "count", closed)
	}
	return closed, errors.Join(errs...)
}
