package repositories

import (
	"github.com/travo-app/travo-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for FCM device token storage
type DeviceTokenRepository interface {
	RegisterToken(token *models.DeviceToken) error
	GetTokensByUserID(userID uint) ([]models.DeviceToken, error)
	DeleteToken(token string) error
}

// PostgresDeviceTokenRepository implements DeviceTokenRepository
type PostgresDeviceTokenRepository struct {
	db *gorm.DB
}

// NewPostgresDeviceTokenRepository creates a new PostgresDeviceTokenRepository
func NewPostgresDeviceTokenRepository(db *gorm.DB) *PostgresDeviceTokenRepository {
	return &PostgresDeviceTokenRepository{db: db}
}

// RegisterToken upserts the token so a device switching accounts re-binds to
// the new user instead of erroring on the unique index.
func (r *PostgresDeviceTokenRepository) RegisterToken(token *models.DeviceToken) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
	}).Create(token).Error
}

func (r *PostgresDeviceTokenRepository) GetTokensByUserID(userID uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *PostgresDeviceTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.DeviceToken{}).Error
}
