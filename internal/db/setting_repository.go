package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terry001-s/socialgraph/internal/models"
)

// SettingRepository provides notification-setting database operations
type SettingRepository struct {
	*Repository
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(repo *Repository) *SettingRepository {
	return &SettingRepository{Repository: repo}
}

// GetByUserID retrieves a user's setting row
func (r *SettingRepository) GetByUserID(ctx context.Context, userID int64) (*models.NotificationSetting, error) {
	var setting models.NotificationSetting
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// GetOrCreate returns the user's setting row, lazily inserting the default
// row on first access. The unique index on user_id plus ON CONFLICT DO
// NOTHING keeps concurrent first accesses from creating duplicates; after
// the insert attempt the row is re-read so every caller sees the winner.
func (r *SettingRepository) GetOrCreate(ctx context.Context, userID int64) (*models.NotificationSetting, error) {
	setting := models.DefaultNotificationSetting(userID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(setting).Error; err != nil {
		return nil, err
	}

	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("notification setting missing after upsert for user %d", userID)
	}
	return existing, nil
}

// Create inserts a setting row (used when constructing a user, in the same
// transaction as the user row)
func (r *SettingRepository) Create(ctx context.Context, setting *models.NotificationSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

// Update saves an updated setting row
func (r *SettingRepository) Update(ctx context.Context, setting *models.NotificationSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
