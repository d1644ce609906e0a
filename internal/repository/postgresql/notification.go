package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func prepareNotification(n *notification.Notification) (*string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Data == nil {
		return nil, nil
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}
	raw := string(data)
	return &raw, nil
}

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

// CreateBatch inserts every notification with one statement by unnesting
// column arrays.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	size := len(notifications)
	var (
		ids        = make([]string, 0, size)
		recipients = make([]string, 0, size)
		types      = make([]string, 0, size)
		titles     = make([]string, 0, size)
		messages   = make([]string, 0, size)
		links      = make([]string, 0, size)
		payloads   = make([]*string, 0, size)
		read       = make([]bool, 0, size)
		createdAt  = make([]time.Time, 0, size)
	)
	for _, n := range notifications {
		data, err := prepareNotification(n)
		if err != nil {
			return err
		}
		ids = append(ids, n.ID)
		recipients = append(recipients, n.RecipientID)
		types = append(types, string(n.Type))
		titles = append(titles, n.Title)
		messages = append(messages, n.Message)
		links = append(links, n.Link)
		payloads = append(payloads, data)
		read = append(read, n.IsRead)
		createdAt = append(createdAt, n.CreatedAt)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, link, data, is_read, created_at)
		SELECT u.id::uuid, u.recipient_id::uuid, u.type, u.title, u.message, u.link, u.data::jsonb, u.is_read, u.created_at
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[], $8::bool[], $9::timestamptz[])
			AS u(id, recipient_id, type, title, message, link, data, is_read, created_at)
	`

	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, query, ids, recipients, types, titles, messages, links, payloads, read, createdAt); err != nil {
		return fmt.Errorf("failed to insert %d notifications: %w", size, mapError(err))
	}
	return nil
}

// GetByRecipient implements notification.Repository. Results are newest first.
func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	const filter = `recipient_id = $1 AND (NOT $2 OR is_read = false)`

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+filter, recipientID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	if total == 0 {
		return []*notification.Notification{}, 0, nil
	}

	query := `
		SELECT id, recipient_id, type, title, message, link, data, is_read, read_at, created_at
		FROM notifications
		WHERE ` + filter + `
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`

	rows, err := q.Query(ctx, query, recipientID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0, pageSize)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var dataJSON []byte
	var notifType string

	if err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&notifType,
		&n.Title,
		&n.Message,
		&n.Link,
		&dataJSON,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.Type = notification.NotificationType(notifType)
	if dataJSON != nil {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return &n, nil
}

// GetUnreadCount returns the count of unread notifications for a recipient
func (r *notificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`
	var count int
	if err := q.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead implements notification.Repository. IDs owned by other
// recipients are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipientID string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = false AND id = ANY($2::text[]::uuid[])
	`

	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, query, recipientID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", mapError(err))
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for a recipient
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = false
	`

	_, err := q.Exec(ctx, query, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}
