package inbox

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/internal/notify"
)

// NotifyAPI provides notification retrieval and read-state API methods.
// Every method is scoped to the given recipient; there is no cross-user
// listing.
type NotifyAPI struct {
	dispatcher *notify.Dispatcher
}

// NewNotifyAPI creates a new notify API
func NewNotifyAPI(dispatcher *notify.Dispatcher) *NotifyAPI {
	return &NotifyAPI{dispatcher: dispatcher}
}

// AccountNotifications handles notify.account_notifications
func (n *NotifyAPI) AccountNotifications(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		RecipientID int64  `json:"recipient_id"`
		IsRead      *bool  `json:"is_read"`
		Kind        string `json:"kind"`
		LastID      int64  `json:"last_id"`
		Limit       int    `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.RecipientID == 0 {
		return nil, fmt.Errorf("missing required parameter: recipient_id")
	}

	notifications, err := n.dispatcher.List(c.Request.Context(), p.RecipientID, notify.ListOptions{
		IsRead: p.IsRead,
		Kind:   p.Kind,
		LastID: p.LastID,
		Limit:  p.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := make([]interface{}, 0, len(notifications))
	for _, notif := range notifications {
		result = append(result, renderNotification(notif))
	}
	return result, nil
}

// UnreadCount handles notify.unread_count
func (n *NotifyAPI) UnreadCount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		RecipientID int64 `json:"recipient_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.RecipientID == 0 {
		return nil, fmt.Errorf("missing required parameter: recipient_id")
	}

	count, err := n.dispatcher.UnreadCount(c.Request.Context(), p.RecipientID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"unread": count}, nil
}

type markParams struct {
	RecipientID    int64 `json:"recipient_id"`
	NotificationID int64 `json:"notification_id"`
}

// MarkRead handles notify.mark_read
func (n *NotifyAPI) MarkRead(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p markParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.RecipientID == 0 || p.NotificationID == 0 {
		return nil, fmt.Errorf("missing required parameters: recipient_id, notification_id")
	}

	if err := n.dispatcher.MarkRead(c.Request.Context(), p.RecipientID, p.NotificationID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"marked": true}, nil
}

// MarkUnread handles notify.mark_unread
func (n *NotifyAPI) MarkUnread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p markParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.RecipientID == 0 || p.NotificationID == 0 {
		return nil, fmt.Errorf("missing required parameters: recipient_id, notification_id")
	}

	if err := n.dispatcher.MarkUnread(c.Request.Context(), p.RecipientID, p.NotificationID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"marked": true}, nil
}

// MarkAllRead handles notify.mark_all_read
func (n *NotifyAPI) MarkAllRead(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		RecipientID int64 `json:"recipient_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.RecipientID == 0 {
		return nil, fmt.Errorf("missing required parameter: recipient_id")
	}

	updated, err := n.dispatcher.MarkAllRead(c.Request.Context(), p.RecipientID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"marked": updated}, nil
}

func renderNotification(notif *models.Notification) map[string]interface{} {
	rendered := map[string]interface{}{
		"id":           notif.ID,
		"recipient_id": notif.RecipientID,
		"actor_id":     notif.ActorID,
		"verb":         notif.Verb,
		"kind":         notify.KindName(notif.Kind),
		"is_read":      notif.IsRead,
		"created_at":   notif.CreatedAt,
	}
	if notif.TargetKind.Valid && notif.TargetID.Valid {
		rendered["target"] = map[string]interface{}{
			"kind": notif.TargetKind.String,
			"id":   notif.TargetID.Int64,
		}
	}
	return rendered
}
