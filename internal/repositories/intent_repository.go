package repositories

import (
	"github.com/fridayblog/backend/internal/models"
	"gorm.io/gorm"
)

// IntentRepository defines the interface for cascade and notification intent
// records. Intents live in PostgreSQL so they survive a crash mid-cascade.
type IntentRepository interface {
	CreateCascadeIntent(kind, rootID string) (*models.CascadeIntent, error)
	MarkCascadeCompleted(id uint, step string) error
	MarkCascadePartialFailure(id uint, step, detail string) error

	CreateNotificationIntent(channel, recipient, subject, body string) (*models.NotificationIntent, error)
	MarkNotificationSent(id uint) error
	MarkNotificationFailed(id uint, detail string) error
	GetPendingNotifications(limit int) ([]models.NotificationIntent, error)
}

// GormIntentRepository implements IntentRepository over a gorm DB
type GormIntentRepository struct {
	db *gorm.DB
}

// NewGormIntentRepository creates a new GormIntentRepository
func NewGormIntentRepository(db *gorm.DB) *GormIntentRepository {
	return &GormIntentRepository{db: db}
}

// CreateCascadeIntent records a pending cascade before any mutation runs
func (r *GormIntentRepository) CreateCascadeIntent(kind, rootID string) (*models.CascadeIntent, error) {
	intent := &models.CascadeIntent{
		Kind:   kind,
		RootID: rootID,
		Status: models.CascadeStatusPending,
	}
	if err := r.db.Create(intent).Error; err != nil {
		return nil, err
	}
	return intent, nil
}

// MarkCascadeCompleted resolves an intent after all steps succeeded
func (r *GormIntentRepository) MarkCascadeCompleted(id uint, step string) error {
	return r.db.Model(&models.CascadeIntent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": models.CascadeStatusCompleted,
		"step":   step,
	}).Error
}

// MarkCascadePartialFailure records a cascade that stopped mid-way. The
// failing step and detail make the row actionable for reconciliation.
func (r *GormIntentRepository) MarkCascadePartialFailure(id uint, step, detail string) error {
	return r.db.Model(&models.CascadeIntent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": models.CascadeStatusPartialFailure,
		"step":   step,
		"detail": detail,
	}).Error
}

// CreateNotificationIntent records an outbound notification before dispatch
func (r *GormIntentRepository) CreateNotificationIntent(channel, recipient, subject, body string) (*models.NotificationIntent, error) {
	intent := &models.NotificationIntent{
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    models.NotificationStatusPending,
	}
	if err := r.db.Create(intent).Error; err != nil {
		return nil, err
	}
	return intent, nil
}

// MarkNotificationSent resolves an intent after successful delivery
func (r *GormIntentRepository) MarkNotificationSent(id uint) error {
	return r.db.Model(&models.NotificationIntent{}).Where("id = ?", id).
		Update("status", models.NotificationStatusSent).Error
}

// MarkNotificationFailed records a delivery failure; the intent remains
// available for a later retry
func (r *GormIntentRepository) MarkNotificationFailed(id uint, detail string) error {
	return r.db.Model(&models.NotificationIntent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": models.NotificationStatusFailed,
		"detail": detail,
	}).Error
}

// GetPendingNotifications returns intents not yet delivered, oldest first
func (r *GormIntentRepository) GetPendingNotifications(limit int) ([]models.NotificationIntent, error) {
	var intents []models.NotificationIntent
	err := r.db.Where("status = ?", models.NotificationStatusPending).
		Order("created_at asc").Limit(limit).Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}
