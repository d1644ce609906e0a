package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/config"
	"github.com/sony/gobreaker"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// ErrUnknownTemplate is returned when a message names a template that is not embedded.
var ErrUnknownTemplate = errors.New("unknown email template")

// Sender delivers templated mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outgoing email. Template names a file under templates/.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     TemplateData
}

// TemplateData is the context every template renders with.
type TemplateData struct {
	RecipientName string
	Title         string
	Message       string
	Link          string
	Details       map[string]string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service sends mail over SMTP with retries. Attempts go through a circuit
// breaker so a dead relay is not hammered by every notification worker.
type Service struct {
	cfg       config.SMTPConfig
	templates *template.Template
	cb        *gobreaker.CircuitBreaker
	sendMail  sendMailFunc
	backoff   func(attempt int) time.Duration
}

// NewService creates a new email service instance
func NewService(cfg config.SMTPConfig) (*Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	settings := gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Service{
		cfg:       cfg,
		templates: tmpl,
		cb:        gobreaker.NewCircuitBreaker(settings),
		sendMail:  smtp.SendMail,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

// Render executes the named template.
func (s *Service) Render(name string, data TemplateData) (string, error) {
	if s.templates.Lookup(name) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

// Send renders msg and delivers it.
func (s *Service) Send(ctx context.Context, msg Message) error {
	body, err := s.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	return s.sendHTML(ctx, msg.To, msg.Subject, body)
}

func (s *Service) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err := s.cb.Execute(func() (interface{}, error) {
			return nil, s.sendMail(addr, auth, from, []string{to}, message)
		})
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("SMTP circuit open, dropping email", "to", to, "subject", subject)
			break
		}
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
