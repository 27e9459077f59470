package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendance struct {
	attendance.AttendanceRepository
	records map[string]attendance.Attendance
}

func (f *fakeAttendance) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r, ok := f.records[userID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (f *fakeAttendance) ListByUsersAndDate(ctx context.Context, userIDs []string, date time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, id := range userIDs {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeWFH struct {
	wfh.WFHRequestRepository
	status  *wfh.Status
	recent  []wfh.WFHRequest
	pending int
	err     error
}

func (f *fakeWFH) GetStatusForDate(ctx context.Context, userID string, date time.Time) (*wfh.Status, error) {
	return f.status, f.err
}

func (f *fakeWFH) ListByUser(ctx context.Context, userID string, limit int) ([]wfh.WFHRequest, error) {
	if limit > 0 && len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeWFH) CountPendingByManager(ctx context.Context, managerID string) (int, error) {
	return f.pending, nil
}

type fakeAssignments struct {
	task.AssignmentRepository
	counts   map[task.AssignmentStatus]int
	awaiting int
}

func (f *fakeAssignments) CountByEmployeeAndStatus(ctx context.Context, employeeID string, status task.AssignmentStatus) (int, error) {
	return f.counts[status], nil
}

func (f *fakeAssignments) CountAwaitingReview(ctx context.Context, managerID string) (int, error) {
	return f.awaiting, nil
}

type fakeUsers struct {
	user.UserRepository
	team []user.User
}

func (f *fakeUsers) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	return f.team, nil
}

func newTestService(att *fakeAttendance, w *fakeWFH, a *fakeAssignments, u *fakeUsers) *DashboardServiceImpl {
	svc := NewDashboardService(att, w, a, u, time.UTC).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetEmployeeDashboard(t *testing.T) {
	entry := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	approved := wfh.StatusApproved
	svc := newTestService(
		&fakeAttendance{records: map[string]attendance.Attendance{
			"u1": {ID: "a1", UserID: "u1", EntryTime: &entry, Status: attendance.StatusPartial, IsWFH: true},
		}},
		&fakeWFH{status: &approved, recent: []wfh.WFHRequest{{ID: "w1"}, {ID: "w2"}}},
		&fakeAssignments{counts: map[task.AssignmentStatus]int{task.StatusPending: 3, task.StatusPendingReview: 1}},
		&fakeUsers{},
	)

	resp, err := svc.GetEmployeeDashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.Date)
	require.NotNil(t, resp.Today)
	assert.True(t, resp.Today.IsWFH)
	require.NotNil(t, resp.TodayWFHStatus)
	assert.Equal(t, wfh.StatusApproved, *resp.TodayWFHStatus)
	assert.Equal(t, 3, resp.PendingTasks)
	assert.Equal(t, 1, resp.TasksInReview)
	assert.Len(t, resp.RecentWFHRequests, 2)
}

func TestGetEmployeeDashboard_NoAttendanceYet(t *testing.T) {
	svc := newTestService(&fakeAttendance{}, &fakeWFH{}, &fakeAssignments{}, &fakeUsers{})

	resp, err := svc.GetEmployeeDashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, resp.Today)
	assert.Nil(t, resp.TodayWFHStatus)
	assert.NotNil(t, resp.RecentWFHRequests)
}

func TestGetEmployeeDashboard_PropagatesErrors(t *testing.T) {
	svc := newTestService(&fakeAttendance{}, &fakeWFH{err: errors.New("boom")}, &fakeAssignments{}, &fakeUsers{})

	_, err := svc.GetEmployeeDashboard(context.Background(), "u1")
	assert.ErrorContains(t, err, "boom")
}

func TestGetManagerDashboard(t *testing.T) {
	entry := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	svc := newTestService(
		&fakeAttendance{records: map[string]attendance.Attendance{
			"u1": {UserID: "u1", EntryTime: &entry, ExitTime: &exit, Status: attendance.StatusPresent},
			"u2": {UserID: "u2", EntryTime: &entry, Status: attendance.StatusPartial, IsWFH: true},
		}},
		&fakeWFH{pending: 2},
		&fakeAssignments{awaiting: 4},
		&fakeUsers{team: []user.User{{ID: "u1", Name: "A"}, {ID: "u2", Name: "B"}, {ID: "u3", Name: "C"}}},
	)

	resp, err := svc.GetManagerDashboard(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TeamSize)
	assert.Equal(t, 2, resp.PresentToday)
	assert.Equal(t, 2, resp.PendingWFHRequests)
	assert.Equal(t, 4, resp.TasksAwaitingReview)
	require.Len(t, resp.Team, 3)
	assert.Equal(t, attendance.StatusPresent, resp.Team[0].Status)
	assert.True(t, resp.Team[1].IsWFH)
	assert.Equal(t, attendance.StatusAbsent, resp.Team[2].Status)
}
