package models

import "gorm.io/gorm"

// Cascade intent kinds
const (
	CascadeKindBlogDelete = "blog_delete"
	CascadeKindUserDelete = "user_delete"
)

// Cascade intent statuses
const (
	CascadeStatusPending        = "pending"
	CascadeStatusCompleted      = "completed"
	CascadeStatusPartialFailure = "partial_failure"
)

// CascadeIntent is the durable record written before a cascading deletion
// starts and resolved when it finishes. A row stuck in partial_failure marks
// data that needs reconciliation; every cascade step is idempotent, so
// retrying the same intent converges.
type CascadeIntent struct {
	gorm.Model
	Kind   string `json:"kind" gorm:"index"`
	RootID string `json:"root_id" gorm:"index"` // hex ObjectID of the entity being deleted
	Step   string `json:"step"`                 // last step reached
	Status string `json:"status" gorm:"index"`
	Detail string `json:"detail"` // failure detail, empty on success
}

// Notification channels
const (
	NotificationChannelEmail = "email"
	NotificationChannelSMS   = "sms"
)

// Notification intent statuses
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// NotificationIntent is an outbound notification produced by the core and
// dispatched by a notifier collaborator. Delivery failure never fails the
// producing request; the intent stays around for retry.
type NotificationIntent struct {
	gorm.Model
	Channel   string `json:"channel" gorm:"index"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Status    string `json:"status" gorm:"index"`
	Detail    string `json:"detail"` // delivery failure detail, empty otherwise
}
