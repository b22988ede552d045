package notify

import (
	"context"
	"fmt"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
)

// Store is the persistence surface of the dispatcher. Keeping it behind an
// interface lets the preference gate and recipient scoping be exercised
// without a database.
type Store interface {
	GetOrCreateSetting(ctx context.Context, userID int64) (*models.NotificationSetting, error)
	SaveSetting(ctx context.Context, setting *models.NotificationSetting) error
	CreateNotification(ctx context.Context, notif *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, filter db.ListFilter) ([]*models.Notification, error)
	SetRead(ctx context.Context, recipientID, notifID int64, read bool) (bool, error)
	SetAllRead(ctx context.Context, recipientID int64) (int64, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	TargetExists(ctx context.Context, kind string, id int64) (bool, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type gormStore struct {
	repo *db.Repository
}

// NewStore creates the gorm-backed notification store
func NewStore(repo *db.Repository) Store {
	return &gormStore{repo: repo}
}

func (s *gormStore) GetOrCreateSetting(ctx context.Context, userID int64) (*models.NotificationSetting, error) {
	return db.NewSettingRepository(s.repo).GetOrCreate(ctx, userID)
}

func (s *gormStore) SaveSetting(ctx context.Context, setting *models.NotificationSetting) error {
	return db.NewSettingRepository(s.repo).Update(ctx, setting)
}

func (s *gormStore) CreateNotification(ctx context.Context, notif *models.Notification) error {
	return db.NewNotificationRepository(s.repo).Create(ctx, notif)
}

func (s *gormStore) ListByRecipient(ctx context.Context, recipientID int64, filter db.ListFilter) ([]*models.Notification, error) {
	return db.NewNotificationRepository(s.repo).GetByRecipient(ctx, recipientID, filter)
}

func (s *gormStore) SetRead(ctx context.Context, recipientID, notifID int64, read bool) (bool, error) {
	return db.NewNotificationRepository(s.repo).SetRead(ctx, recipientID, notifID, read)
}

func (s *gormStore) SetAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return db.NewNotificationRepository(s.repo).SetAllRead(ctx, recipientID)
}

func (s *gormStore) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	return db.NewNotificationRepository(s.repo).CountUnread(ctx, recipientID)
}

func (s *gormStore) TargetExists(ctx context.Context, kind string, id int64) (bool, error) {
	switch kind {
	case models.TargetPost:
		post, err := db.NewPostRepository(s.repo).GetByID(ctx, id)
		return post != nil, err
	case models.TargetComment:
		comment, err := db.NewCommentRepository(s.repo).GetByID(ctx, id)
		return comment != nil, err
	default:
		return false, fmt.Errorf("invalid target kind: %q", kind)
	}
}

func (s *gormStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	user, err := db.NewUserRepository(s.repo).GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
