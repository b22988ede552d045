package inbox

import (
	"database/sql"
	"testing"
	"time"

	"github.com/terry001-s/socialgraph/internal/models"
)

func TestRenderNotification(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	notif := &models.Notification{
		ID:          10,
		RecipientID: 1,
		ActorID:     2,
		Verb:        "liked your post: Hello",
		Kind:        models.KindLike,
		CreatedAt:   created,
		TargetKind:  sql.NullString{String: models.TargetPost, Valid: true},
		TargetID:    sql.NullInt64{Int64: 5, Valid: true},
	}

	rendered := renderNotification(notif)

	if rendered["kind"] != "like" {
		t.Errorf("kind = %v, want like", rendered["kind"])
	}
	if rendered["is_read"] != false {
		t.Errorf("is_read = %v, want false", rendered["is_read"])
	}

	target, ok := rendered["target"].(map[string]interface{})
	if !ok {
		t.Fatal("target should be rendered for a targeted notification")
	}
	if target["kind"] != models.TargetPost || target["id"] != int64(5) {
		t.Errorf("target = %v, want post/5", target)
	}
}

func TestRenderNotificationNoTarget(t *testing.T) {
	notif := &models.Notification{
		ID:          11,
		RecipientID: 1,
		ActorID:     3,
		Verb:        "started following you",
		Kind:        models.KindFollow,
		CreatedAt:   time.Now(),
	}

	rendered := renderNotification(notif)

	if _, ok := rendered["target"]; ok {
		t.Error("target should be omitted for an untargeted notification")
	}
	if rendered["kind"] != "follow" {
		t.Errorf("kind = %v, want follow", rendered["kind"])
	}
}
