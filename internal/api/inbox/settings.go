package inbox

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/internal/notify"
)

// SettingsAPI provides notification preference API methods
type SettingsAPI struct {
	dispatcher *notify.Dispatcher
}

// NewSettingsAPI creates a new settings API
func NewSettingsAPI(dispatcher *notify.Dispatcher) *SettingsAPI {
	return &SettingsAPI{dispatcher: dispatcher}
}

// GetSettings handles notify.get_settings
func (s *SettingsAPI) GetSettings(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	setting, err := s.dispatcher.Settings(c.Request.Context(), p.UserID)
	if err != nil {
		return nil, err
	}
	return renderSetting(setting), nil
}

// SetSettings handles notify.set_settings. Only the supplied boolean
// fields are applied.
func (s *SettingsAPI) SetSettings(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID  int64                 `json:"user_id"`
		Changes notify.SettingChanges `json:"changes"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	setting, err := s.dispatcher.UpdateSettings(c.Request.Context(), p.UserID, p.Changes)
	if err != nil {
		return nil, err
	}
	return renderSetting(setting), nil
}

func renderSetting(setting *models.NotificationSetting) map[string]interface{} {
	return map[string]interface{}{
		"user_id": setting.UserID,
		"in_app": map[string]bool{
			"like":    setting.InAppLike,
			"comment": setting.InAppComment,
			"follow":  setting.InAppFollow,
			"mention": setting.InAppMention,
			"post":    setting.InAppPost,
		},
		"email": map[string]bool{
			"like":    setting.EmailLike,
			"comment": setting.EmailComment,
			"follow":  setting.EmailFollow,
			"mention": setting.EmailMention,
			"post":    setting.EmailPost,
		},
	}
}
