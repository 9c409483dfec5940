package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/fridayblog/backend/internal/models"
)

// EmailNotifier delivers email intents over SMTP
type EmailNotifier struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(host, port, user, password, from string) *EmailNotifier {
	return &EmailNotifier{host: host, port: port, user: user, password: password, from: from}
}

// Send delivers a single email intent
func (e *EmailNotifier) Send(_ context.Context, intent *models.NotificationIntent) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		e.from, intent.Recipient, intent.Subject, intent.Body)

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := e.host + ":" + e.port
	if err := smtp.SendMail(addr, auth, e.from, []string{intent.Recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", intent.Recipient, err)
	}
	return nil
}
