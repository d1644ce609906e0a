package notification

import (
	"context"
)

// Notifier is the post-commit hook used by the workflows. Delivery is
// best-effort: failures are logged and never returned to the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Service defines the notification service interface
type Service interface {
	Notifier

	// Inbox
	GetNotifications(ctx context.Context, recipientID string, req ListNotificationsRequest) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error

	// SSE subscription
	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
