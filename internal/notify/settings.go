package notify

import (
	"context"
	"fmt"

	"github.com/terry001-s/socialgraph/internal/models"
)

// SettingChanges is a partial update of a user's notification preferences.
// Only non-nil fields are applied.
type SettingChanges struct {
	InAppLike    *bool `json:"in_app_like,omitempty"`
	InAppComment *bool `json:"in_app_comment,omitempty"`
	InAppFollow  *bool `json:"in_app_follow,omitempty"`
	InAppMention *bool `json:"in_app_mention,omitempty"`
	InAppPost    *bool `json:"in_app_post,omitempty"`
	EmailLike    *bool `json:"email_like,omitempty"`
	EmailComment *bool `json:"email_comment,omitempty"`
	EmailFollow  *bool `json:"email_follow,omitempty"`
	EmailMention *bool `json:"email_mention,omitempty"`
	EmailPost    *bool `json:"email_post,omitempty"`
}

// apply copies the supplied fields onto the setting row, leaving the rest
// untouched
func (c *SettingChanges) apply(setting *models.NotificationSetting) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&setting.InAppLike, c.InAppLike)
	set(&setting.InAppComment, c.InAppComment)
	set(&setting.InAppFollow, c.InAppFollow)
	set(&setting.InAppMention, c.InAppMention)
	set(&setting.InAppPost, c.InAppPost)
	set(&setting.EmailLike, c.EmailLike)
	set(&setting.EmailComment, c.EmailComment)
	set(&setting.EmailFollow, c.EmailFollow)
	set(&setting.EmailMention, c.EmailMention)
	set(&setting.EmailPost, c.EmailPost)
}

// Settings returns the user's preference row, creating the default row on
// first access. An unknown user fails with ErrUserNotFound.
func (d *Dispatcher) Settings(ctx context.Context, userID int64) (*models.NotificationSetting, error) {
	if err := d.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return d.store.GetOrCreateSetting(ctx, userID)
}

// UpdateSettings applies a partial preference update for the user and
// returns the resulting row
func (d *Dispatcher) UpdateSettings(ctx context.Context, userID int64, changes SettingChanges) (*models.NotificationSetting, error) {
	if err := d.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	setting, err := d.store.GetOrCreateSetting(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes.apply(setting)
	if err := d.store.SaveSetting(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}
	return setting, nil
}
