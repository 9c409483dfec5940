package notifier

import (
	"context"
	"log"

	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/repositories"
)

// Notifier delivers a single notification intent
type Notifier interface {
	Send(ctx context.Context, intent *models.NotificationIntent) error
}

// Outbox persists notification intents and hands them to per-channel
// notifiers. Producing an intent never fails the request that caused it;
// delivery failure is recorded on the intent and logged.
type Outbox struct {
	store repositories.IntentRepository
	email Notifier
	sms   Notifier
}

// NewOutbox creates a new Outbox
func NewOutbox(store repositories.IntentRepository, email, sms Notifier) *Outbox {
	return &Outbox{store: store, email: email, sms: sms}
}

// Enqueue records an intent and attempts immediate delivery. The returned
// error only reflects the record step; dispatch outcome lands on the intent.
func (o *Outbox) Enqueue(ctx context.Context, channel, recipient, subject, body string) error {
	intent, err := o.store.CreateNotificationIntent(channel, recipient, subject, body)
	if err != nil {
		return err
	}
	o.dispatch(ctx, intent)
	return nil
}

func (o *Outbox) dispatch(ctx context.Context, intent *models.NotificationIntent) {
	var n Notifier
	switch intent.Channel {
	case models.NotificationChannelEmail:
		n = o.email
	case models.NotificationChannelSMS:
		n = o.sms
	default:
		log.Printf("notification %d: unknown channel %q", intent.ID, intent.Channel)
		return
	}

	if err := n.Send(ctx, intent); err != nil {
		log.Printf("notification %d: delivery failed: %v", intent.ID, err)
		if markErr := o.store.MarkNotificationFailed(intent.ID, err.Error()); markErr != nil {
			log.Printf("notification %d: failed to record delivery failure: %v", intent.ID, markErr)
		}
		return
	}
	if err := o.store.MarkNotificationSent(intent.ID); err != nil {
		log.Printf("notification %d: sent but intent not resolved: %v", intent.ID, err)
	}
}
