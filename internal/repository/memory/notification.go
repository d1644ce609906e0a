package memory

import (
	"context"
	"sort"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

type notificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) notification.Repository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) insert(t *tables, n *notification.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.store.now()
	}
	t.notifications[n.ID] = *n
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.store.write(ctx, func(t *tables) error {
		r.insert(t, n)
		return nil
	})
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.store.write(ctx, func(t *tables) error {
		for _, n := range notifications {
			r.insert(t, n)
		}
		return nil
	})
}

func (r *notificationRepository) GetByRecipient(_ context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	var matched []*notification.Notification
	r.store.read(func(t *tables) {
		for _, n := range t.notifications {
			if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
				continue
			}
			n := n
			matched = append(matched, &n)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return paginate(matched, (page-1)*pageSize, pageSize), len(matched), nil
}

func (r *notificationRepository) GetUnreadCount(_ context.Context, recipientID string) (int, error) {
	count := 0
	r.store.read(func(t *tables) {
		for _, n := range t.notifications {
			if n.RecipientID == recipientID && !n.IsRead {
				count++
			}
		}
	})
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipientID string) error {
	return r.store.write(ctx, func(t *tables) error {
		now := r.store.now()
		for _, id := range ids {
			n, ok := t.notifications[id]
			if !ok || n.RecipientID != recipientID || n.IsRead {
				continue
			}
			n.IsRead = true
			n.ReadAt = &now
			t.notifications[id] = n
		}
		return nil
	})
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return r.store.write(ctx, func(t *tables) error {
		now := r.store.now()
		for id, n := range t.notifications {
			if n.RecipientID == recipientID && !n.IsRead {
				n.IsRead = true
				n.ReadAt = &now
				t.notifications[id] = n
			}
		}
		return nil
	})
}
