package mailer

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rsvp-service/internal/config"
	"rsvp-service/internal/logger"
)

type capturedSend struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newTestMailer(cfg config.EmailConfig) (*Mailer, *[]capturedSend) {
	m := New(cfg, logger.NewLogger())
	var sends []capturedSend
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sends = append(sends, capturedSend{addr: addr, from: from, to: to, msg: msg})
		return nil
	}
	return m, &sends
}

func configured() config.EmailConfig {
	return config.EmailConfig{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       "587",
		SenderEmail:    "host@example.com",
		SenderPassword: "secret",
	}
}

func TestSendConfirmation(t *testing.T) {
	m, sends := newTestMailer(configured())

	err := m.SendConfirmation("Alice", "a@x.com", 2, 1)
	assert.NoError(t, err)
	assert.Len(t, *sends, 1)

	sent := (*sends)[0]
	assert.Equal(t, "smtp.example.com:587", sent.addr)
	assert.Equal(t, "host@example.com", sent.from)
	assert.Equal(t, []string{"a@x.com"}, sent.to)

	msg := string(sent.msg)
	assert.Contains(t, msg, "Subject: Confirmation - Je Quitte La France - 4 Juillet 2026")
	assert.Contains(t, msg, "To: a@x.com")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "Message-ID: <")
	assert.Contains(t, msg, "Bonjour Alice,")
	assert.Contains(t, msg, "2 personnes")
	assert.Contains(t, msg, "1 personne")
	assert.Contains(t, msg, "text/plain; charset=utf-8")
	assert.Contains(t, msg, "text/html; charset=utf-8")
}

func TestSendConfirmationZeroCounts(t *testing.T) {
	m, sends := newTestMailer(configured())

	err := m.SendConfirmation("Bob", "b@x.com", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, *sends, 1)

	msg := string((*sends)[0].msg)
	assert.Contains(t, msg, "aucune personne")
	assert.NotContains(t, msg, "0 personne")
}

func TestSendConfirmationSkippedWithoutCredentials(t *testing.T) {
	m, sends := newTestMailer(config.EmailConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: "587",
	})

	err := m.SendConfirmation("Alice", "a@x.com", 2, 1)
	assert.NoError(t, err)
	assert.Empty(t, *sends, "no delivery attempt without sender credentials")
}

func TestSendConfirmationSkippedWithoutRecipient(t *testing.T) {
	m, sends := newTestMailer(configured())

	err := m.SendConfirmation("Alice", "", 2, 1)
	assert.NoError(t, err)
	assert.Empty(t, *sends, "no delivery attempt without a recipient address")
}

func TestSendConfirmationDeliveryError(t *testing.T) {
	m, _ := newTestMailer(configured())
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err := m.SendConfirmation("Alice", "a@x.com", 2, 1)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "a@x.com"))
}

func TestCountText(t *testing.T) {
	assert.Equal(t, "aucune personne", countText(0))
	assert.Equal(t, "1 personne", countText(1))
	assert.Equal(t, "2 personnes", countText(2))
	assert.Equal(t, "12 personnes", countText(12))
}
