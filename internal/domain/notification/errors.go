package notification

import (
	"errors"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
)

// Notification domain errors
var (
	ErrNotificationNotFound = apperror.New(apperror.KindNotFound, "notification not found")
	ErrEmptyIDs             = apperror.New(apperror.KindInvalidInput, "notification_ids must not be empty")
	ErrQueueFull            = errors.New("notification queue is full")
)
