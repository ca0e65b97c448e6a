package repositories

import (
	"errors"
	"time"

	"github.com/travo-app/travo-server/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification persistence.
// The repository is the sole writer of the read flag and created_at; every
// other field is write-once at CreateNotification time.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	// FindRecent returns the newest notification matching the dedup key
	// (recipient, actor, kind, target post) created at or after since, or
	// nil when there is none. The check-then-insert pair is not wrapped in
	// a transaction, so deduplication is best-effort, not exactly-once.
	FindRecent(recipientID, actorID uint, kind models.NotificationKind, targetPostID string, since time.Time) (*models.Notification, error)
	GetNotificationByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	// MarkAllAsRead flips every unread notification for the recipient and
	// returns how many rows changed.
	MarkAllAsRead(recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) FindRecent(recipientID, actorID uint, kind models.NotificationKind, targetPostID string, since time.Time) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where(
		"recipient_id = ? AND actor_id = ? AND kind = ? AND target_post_id = ? AND created_at >= ?",
		recipientID, actorID, kind, targetPostID, since,
	).Order("created_at DESC").First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	res := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).Update("read", true)
	return res.RowsAffected, res.Error
}
