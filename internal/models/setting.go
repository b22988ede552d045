package models

import (
	"time"
)

// NotificationSetting holds one user's per-kind notification preferences.
// At most one row per user; the in-app flags gate record creation, the
// email flags are preference state only (no transport is wired).
type NotificationSetting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:notif_settings_ux1;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// In-app flags, enabled by default
	InAppLike    bool `gorm:"not null;default:true;column:in_app_like"`
	InAppComment bool `gorm:"not null;default:true;column:in_app_comment"`
	InAppFollow  bool `gorm:"not null;default:true;column:in_app_follow"`
	InAppMention bool `gorm:"not null;default:true;column:in_app_mention"`
	InAppPost    bool `gorm:"not null;default:true;column:in_app_post"`

	// Email flags, disabled by default
	EmailLike    bool `gorm:"not null;default:false;column:email_like"`
	EmailComment bool `gorm:"not null;default:false;column:email_comment"`
	EmailFollow  bool `gorm:"not null;default:false;column:email_follow"`
	EmailMention bool `gorm:"not null;default:false;column:email_mention"`
	EmailPost    bool `gorm:"not null;default:false;column:email_post"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for NotificationSetting
func (NotificationSetting) TableName() string {
	return "notification_settings"
}

// Notification channels
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

// DefaultNotificationSetting returns a setting row with the default flags:
// every in-app kind enabled, every email kind disabled.
func DefaultNotificationSetting(userID int64) *NotificationSetting {
	return &NotificationSetting{
		UserID:       userID,
		InAppLike:    true,
		InAppComment: true,
		InAppFollow:  true,
		InAppMention: true,
		InAppPost:    true,
	}
}

// Allows reports whether notifications of the given kind are enabled on the
// given channel. Unknown kinds and channels are disabled.
func (s *NotificationSetting) Allows(kind int16, channel string) bool {
	switch channel {
	case ChannelInApp:
		switch kind {
		case KindLike:
			return s.InAppLike
		case KindComment:
			return s.InAppComment
		case KindFollow:
			return s.InAppFollow
		case KindMention:
			return s.InAppMention
		case KindPost:
			return s.InAppPost
		}
	case ChannelEmail:
		switch kind {
		case KindLike:
			return s.EmailLike
		case KindComment:
			return s.EmailComment
		case KindFollow:
			return s.EmailFollow
		case KindMention:
			return s.EmailMention
		case KindPost:
			return s.EmailPost
		}
	}
	return false
}
