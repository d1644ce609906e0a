package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/email"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	sseEventName    = "notification"
	maxParallelMail = 4
	flushTimeout    = 30 * time.Second
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 50
	FlushInterval time.Duration // default: 100ms
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
	EmailEnabled  bool
}

type service struct {
	repo    notification.Repository
	hub     *sse.Hub
	mailer  email.Sender
	metrics *metrics.Metrics
	config  Config

	queue    chan notification.Event
	spill    chan struct{}
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	// mu guards closed. Notify enqueues under the read lock so nothing is
	// queued once Stop has begun draining.
	mu     sync.RWMutex
	closed bool
}

// NewNotificationService starts the background workers. mailer may be nil,
// in which case only the in-app inbox and live stream are fed.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, mailer email.Sender, m *metrics.Metrics, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 100 * time.Millisecond
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:    repo,
		hub:     hub,
		mailer:  mailer,
		metrics: m,
		config:  cfg,
		queue:   make(chan notification.Event, cfg.QueueSize),
		spill:   make(chan struct{}, cfg.WorkerCount),
		stopCh:  make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval.String(),
		"email_enabled", cfg.EmailEnabled && mailer != nil,
	)

	return s
}

// Notify implements notification.Notifier. It never blocks the workflow on
// delivery and never reports failure back to it. When the queue is full the
// event goes to one of a bounded set of spill goroutines; with none free it
// is dropped and counted.
func (s *service) Notify(_ context.Context, event notification.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		slog.Warn("Notification service stopped, dropping event", "recipient_id", event.RecipientID, "type", event.Type)
		s.metrics.NotificationDropped()
		return
	}

	select {
	case s.queue <- event:
		s.metrics.NotificationQueued()
		return
	default:
	}

	select {
	case s.spill <- struct{}{}:
		s.metrics.NotificationQueued()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.spill }()
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			s.deliver(ctx, -1, []notification.Event{event})
		}()
	default:
		slog.Warn("Notification queue full, dropping event", "recipient_id", event.RecipientID, "type", event.Type)
		s.metrics.NotificationDropped()
	}
}

// worker is the background worker that processes notification queue
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		s.deliver(ctx, id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case event := <-s.queue:
					batch = append(batch, event)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// deliver stores the batch in the inbox, pushes it to live streams and sends
// the emails. The inbox and the mail fan-out run in parallel.
func (s *service) deliver(ctx context.Context, workerID int, events []notification.Event) {
	var g errgroup.Group

	g.Go(func() error {
		return s.storeAndPublish(ctx, workerID, events)
	})
	if s.config.EmailEnabled && s.mailer != nil {
		g.Go(func() error {
			return s.sendEmails(ctx, events)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Notification delivery incomplete", "worker", workerID, "events", len(events), "error", err)
	}
}

func (s *service) storeAndPublish(ctx context.Context, workerID int, events []notification.Event) error {
	now := time.Now().UTC()
	notifications := make([]*notification.Notification, len(events))
	for i, e := range events {
		n := e.ToNotification()
		n.ID = uuid.New().String()
		n.CreatedAt = now
		notifications[i] = n
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		s.metrics.NotificationFailed("store")
		return fmt.Errorf("failed to batch insert %d notifications: %w", len(notifications), err)
	}
	slog.Debug("Notifications stored", "worker", workerID, "count", len(notifications))

	for _, n := range notifications {
		s.hub.Publish(n.RecipientID, sse.Event{
			Event: sseEventName,
			Data:  notification.NewNotificationResponse(n),
		})
	}
	return nil
}

func (s *service) sendEmails(ctx context.Context, events []notification.Event) error {
	var g errgroup.Group
	g.SetLimit(maxParallelMail)

	for _, e := range events {
		if e.RecipientEmail == "" {
			continue
		}
		g.Go(func() error {
			msg := email.Message{
				To:       e.RecipientEmail,
				Subject:  e.Title,
				Template: string(e.Type) + ".html",
				Data: email.TemplateData{
					RecipientName: e.RecipientName,
					Title:         e.Title,
					Message:       e.Message,
					Link:          e.Link,
					Details:       stringDetails(e.Data),
				},
			}
			if err := s.mailer.Send(ctx, msg); err != nil {
				s.metrics.NotificationFailed("email")
				slog.Error("Failed to send notification email",
					"recipient_id", e.RecipientID,
					"type", e.Type,
					"error", err,
				)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func stringDetails(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

// GetNotifications retrieves paginated notifications for a recipient
func (s *service) GetNotifications(ctx context.Context, recipientID string, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	req.Normalize()

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, req.Page, req.PageSize, req.Unread)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.NewNotificationResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

// MarkAllAsRead marks all notifications as read for a recipient
func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Subscribe creates an SSE subscription for a recipient
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					select {
					case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued events and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
