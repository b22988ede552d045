package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
)

// fakeStore keeps notifications and settings in memory so the preference
// gate and recipient scoping can be exercised without a database
type fakeStore struct {
	users      map[int64]bool
	settings   map[int64]*models.NotificationSetting
	notifs     map[int64]*models.Notification
	targets    map[string]map[int64]bool
	lastFilter db.ListFilter
	nextID     int64
}

func newFakeStore(userIDs ...int64) *fakeStore {
	s := &fakeStore{
		users:    make(map[int64]bool),
		settings: make(map[int64]*models.NotificationSetting),
		notifs:   make(map[int64]*models.Notification),
		targets: map[string]map[int64]bool{
			models.TargetPost:    {},
			models.TargetComment: {},
		},
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *fakeStore) GetOrCreateSetting(_ context.Context, userID int64) (*models.NotificationSetting, error) {
	if setting, ok := s.settings[userID]; ok {
		return setting, nil
	}
	setting := models.DefaultNotificationSetting(userID)
	s.settings[userID] = setting
	return setting, nil
}

func (s *fakeStore) SaveSetting(_ context.Context, setting *models.NotificationSetting) error {
	s.settings[setting.UserID] = setting
	return nil
}

func (s *fakeStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.nextID++
	notif.ID = s.nextID
	s.notifs[notif.ID] = notif
	return nil
}

func (s *fakeStore) ListByRecipient(_ context.Context, recipientID int64, filter db.ListFilter) ([]*models.Notification, error) {
	s.lastFilter = filter
	var out []*models.Notification
	for _, notif := range s.notifs {
		if notif.RecipientID == recipientID {
			out = append(out, notif)
		}
	}
	return out, nil
}

func (s *fakeStore) SetRead(_ context.Context, recipientID, notifID int64, read bool) (bool, error) {
	notif, ok := s.notifs[notifID]
	if !ok || notif.RecipientID != recipientID {
		return false, nil
	}
	notif.IsRead = read
	return true, nil
}

func (s *fakeStore) SetAllRead(_ context.Context, recipientID int64) (int64, error) {
	var updated int64
	for _, notif := range s.notifs {
		if notif.RecipientID == recipientID && !notif.IsRead {
			notif.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *fakeStore) CountUnread(_ context.Context, recipientID int64) (int64, error) {
	var count int64
	for _, notif := range s.notifs {
		if notif.RecipientID == recipientID && !notif.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) TargetExists(_ context.Context, kind string, id int64) (bool, error) {
	ids, ok := s.targets[kind]
	if !ok {
		return false, errors.New("invalid target kind")
	}
	return ids[id], nil
}

func (s *fakeStore) UserExists(_ context.Context, userID int64) (bool, error) {
	return s.users[userID], nil
}

func newTestDispatcher(store Store) *Dispatcher {
	return &Dispatcher{
		store:     store,
		listLimit: 100,
		logger:    zap.NewNop(),
	}
}

func TestDispatchSuppressedByPreference(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	setting := models.DefaultNotificationSetting(1)
	setting.InAppFollow = false
	store.settings[1] = setting

	d := newTestDispatcher(store)
	notif, err := d.Dispatch(ctx, 1, 2, "started following you", models.KindFollow, nil)
	if err != nil {
		t.Fatalf("suppressed Dispatch() must not fail: %v", err)
	}
	if notif != nil {
		t.Error("suppressed Dispatch() must return no notification")
	}
	if len(store.notifs) != 0 {
		t.Errorf("suppressed Dispatch() stored %d records, want 0", len(store.notifs))
	}
}

func TestDispatchRecordsWhenAllowed(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	store.targets[models.TargetPost][5] = true

	d := newTestDispatcher(store)
	target := &TargetRef{Kind: models.TargetPost, ID: 5}
	notif, err := d.Dispatch(ctx, 1, 2, "liked your post: hi", models.KindLike, target)
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if notif == nil {
		t.Fatal("Dispatch() with default settings should record")
	}
	if notif.RecipientID != 1 || notif.ActorID != 2 || notif.Kind != models.KindLike {
		t.Errorf("recorded notification = %+v", notif)
	}
	if !notif.TargetKind.Valid || notif.TargetKind.String != models.TargetPost || notif.TargetID.Int64 != 5 {
		t.Errorf("target ref = %+v / %+v", notif.TargetKind, notif.TargetID)
	}

	count, err := d.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("UnreadCount() error: %v", err)
	}
	if count != 1 {
		t.Errorf("UnreadCount() = %d, want 1", count)
	}
}

func TestDispatchMissingTarget(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(newFakeStore(1, 2))

	target := &TargetRef{Kind: models.TargetPost, ID: 404}
	if _, err := d.Dispatch(ctx, 1, 2, "liked your post: x", models.KindLike, target); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Dispatch() with missing target error = %v, want ErrTargetNotFound", err)
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	d := newTestDispatcher(store)

	notif, err := d.Dispatch(ctx, 1, 2, "started following you", models.KindFollow, nil)
	if err != nil || notif == nil {
		t.Fatalf("Dispatch() = %v, %v", notif, err)
	}

	// Another recipient must not be able to touch the record
	if err := d.MarkRead(ctx, 2, notif.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead() outside recipient scope error = %v, want ErrNotFound", err)
	}
	if store.notifs[notif.ID].IsRead {
		t.Error("out-of-scope MarkRead() must not flip the read flag")
	}

	if err := d.MarkRead(ctx, 1, notif.ID); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if !store.notifs[notif.ID].IsRead {
		t.Error("MarkRead() should flip the read flag")
	}

	if err := d.MarkUnread(ctx, 1, notif.ID); err != nil {
		t.Fatalf("MarkUnread() error: %v", err)
	}
	if store.notifs[notif.ID].IsRead {
		t.Error("MarkUnread() should clear the read flag")
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	d := newTestDispatcher(newFakeStore(1))

	if err := d.MarkRead(context.Background(), 1, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead() on unknown id error = %v, want ErrNotFound", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	d := newTestDispatcher(store)

	for i := 0; i < 3; i++ {
		if _, err := d.Dispatch(ctx, 1, 2, "started following you", models.KindFollow, nil); err != nil {
			t.Fatalf("Dispatch() error: %v", err)
		}
	}

	updated, err := d.MarkAllRead(ctx, 1)
	if err != nil {
		t.Fatalf("MarkAllRead() error: %v", err)
	}
	if updated != 3 {
		t.Errorf("MarkAllRead() = %d, want 3", updated)
	}

	count, err := d.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("UnreadCount() error: %v", err)
	}
	if count != 0 {
		t.Errorf("UnreadCount() after MarkAllRead() = %d, want 0", count)
	}
}

func TestListForwardsFilter(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1)
	d := newTestDispatcher(store)

	unread := false
	if _, err := d.List(ctx, 1, ListOptions{IsRead: &unread, Kind: "like", LastID: 7, Limit: 500}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if store.lastFilter.Limit != 100 {
		t.Errorf("filter limit = %d, want clamped to 100", store.lastFilter.Limit)
	}
	if store.lastFilter.Kind == nil || *store.lastFilter.Kind != models.KindLike {
		t.Errorf("filter kind = %v, want like", store.lastFilter.Kind)
	}
	if store.lastFilter.LastID != 7 {
		t.Errorf("filter last id = %d, want 7", store.lastFilter.LastID)
	}
	if store.lastFilter.IsRead == nil || *store.lastFilter.IsRead {
		t.Errorf("filter read flag = %v, want false", store.lastFilter.IsRead)
	}

	if _, err := d.List(ctx, 1, ListOptions{Kind: "bogus"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("List() with unknown kind error = %v, want ErrUnknownKind", err)
	}
}

func TestSettingsUnknownUser(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(newFakeStore(1))

	if _, err := d.Settings(ctx, 99); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Settings() for unknown user error = %v, want ErrUserNotFound", err)
	}
	if _, err := d.UpdateSettings(ctx, 99, SettingChanges{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateSettings() for unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	d := newTestDispatcher(store)

	off := false
	if _, err := d.UpdateSettings(ctx, 1, SettingChanges{InAppFollow: &off}); err != nil {
		t.Fatalf("UpdateSettings() error: %v", err)
	}

	setting, err := d.Settings(ctx, 1)
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	if setting.InAppFollow {
		t.Error("InAppFollow should stay off after update")
	}

	// The disabled preference now suppresses dispatch
	notif, err := d.Dispatch(ctx, 1, 2, "started following you", models.KindFollow, nil)
	if err != nil || notif != nil {
		t.Errorf("Dispatch() after disable = %v, %v, want suppressed no-op", notif, err)
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		name     string
		kind     int16
		expected string
	}{
		{"like", models.KindLike, "like"},
		{"comment", models.KindComment, "comment"},
		{"follow", models.KindFollow, "follow"},
		{"mention", models.KindMention, "mention"},
		{"post", models.KindPost, "post"},
		{"unknown", 999, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := KindName(tt.kind)
			if result != tt.expected {
				t.Errorf("KindName(%d) = %v, want %v", tt.kind, result, tt.expected)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]int16{
		"like":    models.KindLike,
		"comment": models.KindComment,
		"follow":  models.KindFollow,
		"mention": models.KindMention,
		"post":    models.KindPost,
	} {
		t.Run(name, func(t *testing.T) {
			kind, err := ParseKind(name)
			if err != nil {
				t.Fatalf("ParseKind(%q) error: %v", name, err)
			}
			if kind != want {
				t.Errorf("ParseKind(%q) = %d, want %d", name, kind, want)
			}
		})
	}

	if _, err := ParseKind("bogus"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind() error = %v, want ErrUnknownKind", err)
	}
	if _, err := ParseKind(""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(\"\") error = %v, want ErrUnknownKind", err)
	}
}

func TestKindRoundTrip(t *testing.T) {
	for name := range kindValues {
		kind, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", name, err)
		}
		if got := KindName(kind); got != name {
			t.Errorf("KindName(ParseKind(%q)) = %q", name, got)
		}
	}
}

func TestSettingAllowsDefaults(t *testing.T) {
	setting := models.DefaultNotificationSetting(1)

	kinds := []int16{models.KindLike, models.KindComment, models.KindFollow, models.KindMention, models.KindPost}
	for _, kind := range kinds {
		if !setting.Allows(kind, models.ChannelInApp) {
			t.Errorf("default setting should allow in-app %s", KindName(kind))
		}
		if setting.Allows(kind, models.ChannelEmail) {
			t.Errorf("default setting should not allow email %s", KindName(kind))
		}
	}

	// Unknown kind and channel are disabled
	if setting.Allows(999, models.ChannelInApp) {
		t.Error("unknown kind should not be allowed")
	}
	if setting.Allows(models.KindLike, "push") {
		t.Error("unknown channel should not be allowed")
	}
}

func TestSettingAllowsToggles(t *testing.T) {
	setting := models.DefaultNotificationSetting(1)
	setting.InAppLike = false
	setting.EmailFollow = true

	if setting.Allows(models.KindLike, models.ChannelInApp) {
		t.Error("disabled in-app like should not be allowed")
	}
	if !setting.Allows(models.KindComment, models.ChannelInApp) {
		t.Error("other in-app kinds should stay enabled")
	}
	if !setting.Allows(models.KindFollow, models.ChannelEmail) {
		t.Error("enabled email follow should be allowed")
	}
}

func TestSettingChangesApply(t *testing.T) {
	setting := models.DefaultNotificationSetting(1)

	off := false
	on := true
	changes := SettingChanges{
		InAppLike:   &off,
		EmailFollow: &on,
	}
	changes.apply(setting)

	if setting.InAppLike {
		t.Error("InAppLike should be off after apply")
	}
	if !setting.EmailFollow {
		t.Error("EmailFollow should be on after apply")
	}

	// Untouched fields keep their values
	if !setting.InAppComment || !setting.InAppFollow || !setting.InAppMention || !setting.InAppPost {
		t.Error("unsupplied in-app fields must not change")
	}
	if setting.EmailLike || setting.EmailComment || setting.EmailMention || setting.EmailPost {
		t.Error("unsupplied email fields must not change")
	}
}

func TestSettingChangesApplyEmpty(t *testing.T) {
	setting := models.DefaultNotificationSetting(1)
	before := *setting

	changes := SettingChanges{}
	changes.apply(setting)

	if *setting != before {
		t.Error("empty changes must leave the setting untouched")
	}
}

func TestDispatcherClampLimit(t *testing.T) {
	d := &Dispatcher{listLimit: 100}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"zero uses max", 0, 100},
		{"over max clamped", 500, 100},
		{"in range kept", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.clampLimit(tt.limit); got != tt.expected {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.expected)
			}
		})
	}
}

func TestUnreadKey(t *testing.T) {
	if unreadKey(9) != "notify:unread:9" {
		t.Errorf("unreadKey(9) = %s", unreadKey(9))
	}
}
