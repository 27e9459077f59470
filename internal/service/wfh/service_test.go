package wfh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu   sync.Mutex
	byID map[string]wfh.WFHRequest
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]wfh.WFHRequest{}}
}

func (m *memoryRepo) Create(ctx context.Context, r wfh.WFHRequest) (wfh.WFHRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.UserID == r.UserID && existing.Date.Equal(r.Date) {
			return wfh.WFHRequest{}, wfh.ErrDuplicateRequest
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	m.byID[r.ID] = r
	return r, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (wfh.WFHRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return wfh.WFHRequest{}, wfh.ErrRequestNotFound
	}
	return r, nil
}

func (m *memoryRepo) Respond(ctx context.Context, id string, status wfh.Status, at time.Time) (wfh.WFHRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || r.Status != wfh.StatusPending {
		return wfh.WFHRequest{}, wfh.ErrAlreadyProcessed
	}
	r.Status = status
	r.RespondedAt = &at
	m.byID[id] = r
	return r, nil
}

func (m *memoryRepo) ListByManager(ctx context.Context, managerID string) ([]wfh.WFHRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wfh.WFHRequest
	for _, r := range m.byID {
		if r.ManagerID == managerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]wfh.WFHRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wfh.WFHRequest
	for _, r := range m.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetStatusForDate(ctx context.Context, userID string, date time.Time) (*wfh.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.UserID == userID && r.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			s := r.Status
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) CountPendingByManager(ctx context.Context, managerID string) (int, error) {
	return 0, nil
}

type fakeUsers struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type recordingNotifier struct {
	reqs []notification.CreateNotificationRequest
}

func (n *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.reqs = append(n.reqs, req)
	return nil
}

type fixture struct {
	svc        *WFHServiceImpl
	users      *fakeUsers
	notifier   *recordingNotifier
	managerID  string
	employeeID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	managerID := uuid.NewString()
	employeeID := uuid.NewString()
	users := &fakeUsers{users: map[string]user.User{
		managerID:  {ID: managerID, Name: "Meera", Email: "meera@example.com", Role: user.RoleManager},
		employeeID: {ID: employeeID, Name: "Asha", Email: "asha@example.com", Role: user.RoleEmployee, ManagerID: &managerID},
	}}
	notifier := &recordingNotifier{}
	return &fixture{
		svc:        NewWFHService(newMemoryRepo(), users, notifier),
		users:      users,
		notifier:   notifier,
		managerID:  managerID,
		employeeID: employeeID,
	}
}

func (f *fixture) submit(t *testing.T, date string) wfh.WFHResponse {
	t.Helper()
	resp, err := f.svc.SubmitRequest(context.Background(), f.employeeID, wfh.SubmitRequest{Date: date, Reason: "plumber visit"})
	require.NoError(t, err)
	return resp
}

func TestSubmitRequest(t *testing.T) {
	f := newFixture(t)

	resp := f.submit(t, "2024-06-01")
	assert.Equal(t, wfh.StatusPending, resp.Status)
	assert.Equal(t, f.managerID, resp.ManagerID)
	assert.Equal(t, "Asha", resp.EmployeeName)

	require.Len(t, f.notifier.reqs, 1)
	assert.Equal(t, notification.TypeWFHRequested, f.notifier.reqs[0].Type)
	assert.Equal(t, "meera@example.com", f.notifier.reqs[0].RecipientEmail)
}

func TestSubmitRequest_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2024-06-01")

	_, err := f.svc.SubmitRequest(context.Background(), f.employeeID, wfh.SubmitRequest{Date: "2024-06-01", Reason: "again"})
	assert.ErrorIs(t, err, wfh.ErrDuplicateRequest)
}

func TestSubmitRequest_DuplicateReportedBeforeMissingManager(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2024-06-01")

	employee := f.users.users[f.employeeID]
	employee.ManagerID = nil
	f.users.users[f.employeeID] = employee

	_, err := f.svc.SubmitRequest(context.Background(), f.employeeID, wfh.SubmitRequest{Date: "2024-06-01", Reason: "again"})
	assert.ErrorIs(t, err, wfh.ErrDuplicateRequest)

	_, err = f.svc.SubmitRequest(context.Background(), f.employeeID, wfh.SubmitRequest{Date: "2024-06-02", Reason: "new day"})
	assert.ErrorIs(t, err, wfh.ErrNoManagerAssigned)
}

func TestSubmitRequest_NoManager(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitRequest(context.Background(), f.managerID, wfh.SubmitRequest{Date: "2024-06-01", Reason: "x"})
	assert.ErrorIs(t, err, wfh.ErrNoManagerAssigned)
}

func TestRespond(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2024-06-01")

	resp, err := f.svc.Respond(context.Background(), f.managerID, req.ID, wfh.RespondRequest{Status: wfh.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, wfh.StatusApproved, resp.Status)
	assert.NotNil(t, resp.RespondedAt)

	last := f.notifier.reqs[len(f.notifier.reqs)-1]
	assert.Equal(t, notification.TypeWFHApproved, last.Type)
	assert.Equal(t, f.employeeID, last.RecipientID)

	approved, err := f.svc.HasApprovedWFH(context.Background(), f.employeeID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, approved)

	_, err = f.svc.Respond(context.Background(), f.managerID, req.ID, wfh.RespondRequest{Status: wfh.StatusRejected})
	assert.ErrorIs(t, err, wfh.ErrAlreadyProcessed)
}

func TestRespond_Errors(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2024-06-01")

	_, err := f.svc.Respond(context.Background(), f.managerID, req.ID, wfh.RespondRequest{Status: "Maybe"})
	assert.ErrorIs(t, err, wfh.ErrInvalidDecision)

	_, err = f.svc.Respond(context.Background(), f.managerID, uuid.NewString(), wfh.RespondRequest{Status: wfh.StatusApproved})
	assert.ErrorIs(t, err, wfh.ErrRequestNotFound)

	_, err = f.svc.Respond(context.Background(), f.managerID, "not-a-uuid", wfh.RespondRequest{Status: wfh.StatusApproved})
	assert.ErrorIs(t, err, wfh.ErrRequestNotFound)

	_, err = f.svc.Respond(context.Background(), uuid.NewString(), req.ID, wfh.RespondRequest{Status: wfh.StatusApproved})
	assert.ErrorIs(t, err, wfh.ErrForbidden)
}

func TestRespond_RejectedIsNotApproval(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2024-06-02")

	_, err := f.svc.Respond(context.Background(), f.managerID, req.ID, wfh.RespondRequest{Status: wfh.StatusRejected})
	require.NoError(t, err)

	approved, err := f.svc.HasApprovedWFH(context.Background(), f.employeeID, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, approved)
}

func TestListRequests_ByRole(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2024-06-01")
	f.submit(t, "2024-06-02")

	mine, err := f.svc.ListRequests(context.Background(), f.employeeID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	inbox, err := f.svc.ListRequests(context.Background(), f.managerID, user.RoleManager)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	none, err := f.svc.ListRequests(context.Background(), f.managerID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Empty(t, none)
}
