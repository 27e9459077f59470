package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const sseEventName = "notification"

type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	mailer email.EmailService
	config Config
	now    func() time.Time

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService starts the background workers. mailer may be nil.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, mailer email.EmailService, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		mailer: mailer,
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.deliver(ctx, batch); err != nil {
			slog.Error("Notification batch insert failed", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("Notification batch delivered", "worker", id, "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// deliver persists reqs, pushes them to open streams and sends email copies.
func (s *service) deliver(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	notifications := make([]*notification.Notification, len(reqs))
	for i, req := range reqs {
		notifications[i] = &notification.Notification{
			ID:          uuid.NewString(),
			RecipientID: req.RecipientID,
			SenderID:    req.SenderID,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Data:        req.Data,
			CreatedAt:   s.now(),
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return err
	}

	for _, n := range notifications {
		s.hub.Publish(n.RecipientID, sse.Event{
			Event: sseEventName,
			Data:  notification.ToResponse(n),
		})
	}

	for _, req := range reqs {
		if err := s.sendEmail(req); err != nil {
			slog.Warn("Notification email failed", "type", req.Type, "recipient", req.RecipientID, "error", err)
		}
	}
	return nil
}

func (s *service) sendEmail(req notification.CreateNotificationRequest) error {
	if s.mailer == nil || req.RecipientEmail == "" || !req.Type.Emailed() {
		return nil
	}

	str := func(key string) string {
		v, _ := req.Data[key].(string)
		return v
	}

	switch req.Type {
	case notification.TypeWFHRequested:
		return s.mailer.SendWFHRequested(req.RecipientEmail, req.RecipientName, str("employee_name"), str("date"), str("reason"))
	case notification.TypeWFHApproved, notification.TypeWFHRejected:
		return s.mailer.SendWFHDecision(req.RecipientEmail, req.RecipientName, str("date"), str("status"))
	}
	return fmt.Errorf("no email template for %s", req.Type)
}

// QueueNotification hands req to the workers, falling back to a direct write when the queue is full.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case <-s.stopCh:
		return s.deliver(ctx, []notification.CreateNotificationRequest{req})
	default:
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.Warn("Notification queue full, writing directly", "type", req.Type)
		return s.deliver(ctx, []notification.CreateNotificationRequest{req})
	}
}

func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if req.All {
		return s.repo.MarkAllAsRead(ctx, userID)
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

func (s *service) Subscribe(userID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(userID)
}

// Stop flushes queued notifications and waits for the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
