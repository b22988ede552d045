package db

import (
	"context"

	"github.com/terry001-s/socialgraph/internal/models"
)

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create persists a notification record
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// ListFilter narrows a recipient's notification listing
type ListFilter struct {
	IsRead *bool  // nil = both read and unread
	Kind   *int16 // nil = all kinds
	LastID int64  // cursor: return rows with id < LastID; 0 = from the head
	Limit  int
}

// GetByRecipient retrieves a recipient's notifications newest first,
// paginated by a descending id cursor
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID int64, filter ListFilter) ([]*models.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID)

	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.LastID > 0 {
		query = query.Where("id < ?", filter.LastID)
	}

	var notifications []*models.Notification
	err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// SetRead updates the read flag of one notification scoped to its
// recipient. Returns whether a row matched; a read flag already at the
// requested value still matches.
func (r *NotificationRepository) SetRead(ctx context.Context, recipientID, notifID int64, read bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notifID, recipientID).
		Update("is_read", read)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetAllRead marks every unread notification of the recipient as read and
// returns how many rows changed
func (r *NotificationRepository) SetAllRead(ctx context.Context, recipientID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread returns the recipient's unread notification count
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
