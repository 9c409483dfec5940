package notifier

import (
	"context"
	"log"

	"github.com/fridayblog/backend/internal/models"
)

// LogSMSNotifier stands in for an SMS gateway: it logs the message instead
// of delivering it. Swap in a real gateway client behind the same interface.
type LogSMSNotifier struct{}

// NewLogSMSNotifier creates a new LogSMSNotifier
func NewLogSMSNotifier() *LogSMSNotifier {
	return &LogSMSNotifier{}
}

// Send logs a single SMS intent
func (s *LogSMSNotifier) Send(_ context.Context, intent *models.NotificationIntent) error {
	log.Printf("SMS to %s: %s", intent.Recipient, intent.Body)
	return nil
}
