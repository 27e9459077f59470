package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu            sync.Mutex
	saved         []*notification.Notification
	createBatchFn func(ctx context.Context, ns []*notification.Notification) error
	markAsReadFn  func(ctx context.Context, ids []string, userID string) error
	markAllFn     func(ctx context.Context, userID string) error
}

func (f *fakeRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if f.createBatchFn != nil {
		if err := f.createBatchFn(ctx, ns); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, ns...)
	return nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*notification.Notification
	for _, n := range f.saved {
		if n.RecipientID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	ns, _, _ := f.GetByUserID(ctx, userID, 1, 100, true)
	return len(ns), nil
}

func (f *fakeRepo) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	return f.markAsReadFn(ctx, ids, userID)
}

func (f *fakeRepo) MarkAllAsRead(ctx context.Context, userID string) error {
	return f.markAllFn(ctx, userID)
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeMailer struct {
	mu        sync.Mutex
	requested []string
	decisions []string
}

func (m *fakeMailer) SendWFHRequested(to, managerName, employeeName, date, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, to+"|"+employeeName+"|"+date)
	return nil
}

func (m *fakeMailer) SendWFHDecision(to, employeeName, date, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, to+"|"+status)
	return nil
}

func TestQueueNotification_FlushesOnStopAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	mailer := &fakeMailer{}
	svc := NewNotificationService(repo, hub, mailer, Config{FlushInterval: time.Hour, WorkerCount: 1})

	stream, cleanup := svc.Subscribe("mgr-1")
	defer cleanup()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID:    "mgr-1",
		RecipientEmail: "mgr@example.com",
		Type:           notification.TypeWFHRequested,
		Title:          "WFH request",
		Data:           map[string]interface{}{"employee_name": "Asha", "date": "2024-06-01"},
	})
	require.NoError(t, err)

	svc.Stop()

	assert.Equal(t, 1, repo.count())
	select {
	case ev := <-stream:
		assert.Equal(t, sseEventName, ev.Event)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, notification.TypeWFHRequested, resp.Type)
	default:
		t.Fatal("expected an SSE event")
	}
	assert.Equal(t, []string{"mgr@example.com|Asha|2024-06-01"}, mailer.requested)
}

func TestQueueNotification_BatchSizeTriggersFlush(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), nil, Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			RecipientID: "u1", Type: notification.TypeTaskAssigned,
		}))
	}

	assert.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestQueueNotification_AfterStopWritesDirectly(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), nil, Config{WorkerCount: 1})
	svc.Stop()
	svc.Stop()

	require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "u1", Type: notification.TypeTaskApproved,
	}))
	assert.Equal(t, 1, repo.count())
}

func TestDeliver_RepositoryFailureSkipsEmail(t *testing.T) {
	repo := &fakeRepo{createBatchFn: func(ctx context.Context, ns []*notification.Notification) error {
		return errors.New("db down")
	}}
	mailer := &fakeMailer{}
	svc := NewNotificationService(repo, sse.NewHub(), mailer, Config{WorkerCount: 1}).(*service)
	defer svc.Stop()

	err := svc.deliver(context.Background(), []notification.CreateNotificationRequest{{
		RecipientID: "u1", RecipientEmail: "u1@example.com", Type: notification.TypeWFHApproved,
	}})
	assert.Error(t, err)
	assert.Empty(t, mailer.decisions)
}

func TestMarkAsRead_RoutesAll(t *testing.T) {
	var allFor, someFor string
	repo := &fakeRepo{
		markAllFn:    func(ctx context.Context, userID string) error { allFor = userID; return nil },
		markAsReadFn: func(ctx context.Context, ids []string, userID string) error { someFor = userID; return nil },
	}
	svc := NewNotificationService(repo, sse.NewHub(), nil, Config{WorkerCount: 1})
	defer svc.Stop()

	require.NoError(t, svc.MarkAsRead(context.Background(), "u1", notification.MarkAsReadRequest{All: true}))
	require.NoError(t, svc.MarkAsRead(context.Background(), "u2", notification.MarkAsReadRequest{NotificationIDs: []string{"x"}}))
	assert.Equal(t, "u1", allFor)
	assert.Equal(t, "u2", someFor)
}

func TestGetNotifications_ClampsPaging(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, sse.NewHub(), nil, Config{WorkerCount: 1})
	defer svc.Stop()

	resp, err := svc.GetNotifications(context.Background(), "u1", 0, 1000, false)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Empty(t, resp.Notifications)
}
