package notification

import (
	"context"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/sse"
)

// Notifier is the narrow view other services depend on.
type Notifier interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
}

type Service interface {
	Notifier

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error

	Subscribe(userID string) (<-chan sse.Event, func())

	Stop()
}
