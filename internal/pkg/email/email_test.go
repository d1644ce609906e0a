package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/config"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, host string) *Service {
	t.Helper()
	s, err := NewService(config.SMTPConfig{Host: host, Port: 2525, From: "hr@example.com", FromName: "HR"})
	require.NoError(t, err)
	s.backoff = func(int) time.Duration { return time.Millisecond }
	return s
}

func leaveApproved() Message {
	return Message{
		To:       "ana@example.com",
		Subject:  "Leave request approved",
		Template: "leave_approved.html",
		Data: TemplateData{
			RecipientName: "Ana",
			Title:         "Leave request approved",
			Message:       "Your annual leave was approved.",
			Link:          "http://localhost:3000/leave/requests/1",
			Details: map[string]string{
				"leave_type":     "annual",
				"start_date":     "2026-01-05",
				"end_date":       "2026-01-09",
				"days_requested": "5",
			},
		},
	}
}

func TestRender(t *testing.T) {
	s := newTestService(t, "")

	body, err := s.Render("leave_approved.html", leaveApproved().Data)
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Ana")
	assert.Contains(t, body, "2026-01-05 to 2026-01-09")
	assert.NotContains(t, body, "Notes")

	for _, name := range []string{"leave_rejected.html", "correction_approved.html", "correction_rejected.html"} {
		_, err := s.Render(name, TemplateData{Details: map[string]string{}})
		assert.NoError(t, err, name)
	}

	_, err = s.Render("missing.html", TemplateData{})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestSend_SkipsWhenUnconfigured(t *testing.T) {
	s := newTestService(t, "")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail must not be called without SMTP host")
		return nil
	}
	assert.NoError(t, s.Send(context.Background(), leaveApproved()))
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	s := newTestService(t, "smtp.example.com")
	calls := 0
	var sent []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		if calls < 2 {
			return errors.New("connection reset")
		}
		assert.Equal(t, "smtp.example.com:2525", addr)
		assert.Equal(t, []string{"ana@example.com"}, to)
		sent = msg
		return nil
	}

	require.NoError(t, s.Send(context.Background(), leaveApproved()))
	assert.Equal(t, 2, calls)
	assert.Contains(t, string(sent), "Subject: Leave request approved")
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	s := newTestService(t, "smtp.example.com")
	calls := 0
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("relay down")
	}

	err := s.Send(context.Background(), leaveApproved())
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestSend_CircuitOpensOnRepeatedFailure(t *testing.T) {
	s := newTestService(t, "smtp.example.com")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay down")
	}

	// 4 messages x 3 attempts trips the breaker (>= 10 requests, 100% failures).
	for i := 0; i < 4; i++ {
		_ = s.Send(context.Background(), leaveApproved())
	}
	assert.Equal(t, gobreaker.StateOpen, s.cb.State())

	err := s.Send(context.Background(), leaveApproved())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
