package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"golang.org/x/sync/errgroup"
)

const recentWFHLimit = 5

type DashboardServiceImpl struct {
	attendance  attendance.AttendanceRepository
	wfh         wfh.WFHRequestRepository
	assignments task.AssignmentRepository
	users       user.UserRepository
	loc         *time.Location
	now         func() time.Time
}

func NewDashboardService(
	attendanceRepository attendance.AttendanceRepository,
	wfhRepository wfh.WFHRequestRepository,
	assignmentRepository task.AssignmentRepository,
	userRepository user.UserRepository,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		attendance:  attendanceRepository,
		wfh:         wfhRepository,
		assignments: assignmentRepository,
		users:       userRepository,
		loc:         loc,
		now:         time.Now,
	}
}

// GetEmployeeDashboard runs its five reads concurrently.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, userID string) (*dashboard.EmployeeDashboardResponse, error) {
	today := attendance.DateOf(s.now(), s.loc)
	resp := &dashboard.EmployeeDashboardResponse{
		Date:              today.Format("2006-01-02"),
		RecentWFHRequests: []wfh.WFHResponse{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := s.attendance.GetByUserAndDate(gctx, userID, today)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return nil
			}
			return fmt.Errorf("today's attendance: %w", err)
		}
		r := attendance.ToResponse(record)
		resp.Today = &r
		return nil
	})

	g.Go(func() error {
		status, err := s.wfh.GetStatusForDate(gctx, userID, today)
		if err != nil {
			return fmt.Errorf("today's WFH status: %w", err)
		}
		resp.TodayWFHStatus = status
		return nil
	})

	g.Go(func() error {
		n, err := s.assignments.CountByEmployeeAndStatus(gctx, userID, task.StatusPending)
		if err != nil {
			return fmt.Errorf("pending tasks: %w", err)
		}
		resp.PendingTasks = n
		return nil
	})

	g.Go(func() error {
		n, err := s.assignments.CountByEmployeeAndStatus(gctx, userID, task.StatusPendingReview)
		if err != nil {
			return fmt.Errorf("tasks in review: %w", err)
		}
		resp.TasksInReview = n
		return nil
	})

	g.Go(func() error {
		reqs, err := s.wfh.ListByUser(gctx, userID, recentWFHLimit)
		if err != nil {
			return fmt.Errorf("recent WFH requests: %w", err)
		}
		resp.RecentWFHRequests = wfh.ToResponses(reqs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build employee dashboard: %w", err)
	}
	return resp, nil
}

// GetManagerDashboard summarises the manager's direct reports for today.
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context, managerID string) (*dashboard.ManagerDashboardResponse, error) {
	today := attendance.DateOf(s.now(), s.loc)
	resp := &dashboard.ManagerDashboardResponse{
		Date: today.Format("2006-01-02"),
		Team: []dashboard.TeamMemberStatus{},
	}

	team, err := s.users.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	resp.TeamSize = len(team)

	var records []attendance.Attendance
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(team) == 0 {
			return nil
		}
		ids := make([]string, len(team))
		for i, member := range team {
			ids[i] = member.ID
		}
		var err error
		records, err = s.attendance.ListByUsersAndDate(gctx, ids, today)
		if err != nil {
			return fmt.Errorf("team attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		n, err := s.wfh.CountPendingByManager(gctx, managerID)
		if err != nil {
			return fmt.Errorf("pending WFH requests: %w", err)
		}
		resp.PendingWFHRequests = n
		return nil
	})

	g.Go(func() error {
		n, err := s.assignments.CountAwaitingReview(gctx, managerID)
		if err != nil {
			return fmt.Errorf("tasks awaiting review: %w", err)
		}
		resp.TasksAwaitingReview = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build manager dashboard: %w", err)
	}

	byUser := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byUser[r.UserID] = r
	}

	for _, member := range team {
		status := dashboard.TeamMemberStatus{
			UserID: member.ID,
			Name:   member.Name,
			Email:  member.Email,
			Status: attendance.StatusAbsent,
		}
		if r, ok := byUser[member.ID]; ok {
			status.IsWFH = r.IsWFH
			status.EntryTime = r.EntryTime
			status.ExitTime = r.ExitTime
			if r.HasEntry() {
				resp.PresentToday++
				status.Status = r.Status
			}
		}
		resp.Team = append(resp.Team, status)
	}

	return resp, nil
}
