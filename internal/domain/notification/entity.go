package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveApproved      NotificationType = "leave_approved"
	TypeLeaveRejected      NotificationType = "leave_rejected"
	TypeCorrectionApproved NotificationType = "correction_approved"
	TypeCorrectionRejected NotificationType = "correction_rejected"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLeaveApproved,
		TypeLeaveRejected,
		TypeCorrectionApproved,
		TypeCorrectionRejected,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Link        string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// Event is what a workflow hands to the notifier after its transaction commits.
type Event struct {
	RecipientID    string
	RecipientEmail string
	RecipientName  string
	Type           NotificationType
	Title          string
	Message        string
	Link           string
	Data           map[string]interface{}
}

func (e Event) ToNotification() *Notification {
	return &Notification{
		RecipientID: e.RecipientID,
		Type:        e.Type,
		Title:       e.Title,
		Message:     e.Message,
		Link:        e.Link,
		Data:        e.Data,
	}
}
