package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/cache"
	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

var (
	// ErrNotFound is returned when a notification id does not exist in the
	// caller's recipient scope
	ErrNotFound = errors.New("notification not found")
	// ErrTargetNotFound is returned when a dispatch names a target entity
	// that does not exist
	ErrTargetNotFound = errors.New("notification target not found")
	// ErrUserNotFound is returned when a preference operation names a
	// nonexistent user
	ErrUserNotFound = errors.New("user not found")
)

// TargetRef is a tagged reference to the entity a notification is about
type TargetRef struct {
	Kind string `json:"kind"` // models.TargetPost or models.TargetComment
	ID   int64  `json:"id"`
}

// ListOptions narrows a recipient's notification listing
type ListOptions struct {
	IsRead *bool  // nil = both
	Kind   string // "" = all kinds
	LastID int64  // descending id cursor, 0 = from the head
	Limit  int
}

// Dispatcher decides whether an event becomes a persisted notification.
// Callers invoke Dispatch unconditionally; the recipient's stored
// preferences gate record creation in exactly one place.
type Dispatcher struct {
	store     Store
	cache     *cache.Cache
	countsTTL time.Duration
	listLimit int
	logger    *zap.Logger
}

// NewDispatcher creates a notification dispatcher backed by the gorm store
func NewDispatcher(repo *db.Repository, redisCache *cache.Cache, countsTTL time.Duration, listLimit int) *Dispatcher {
	return &Dispatcher{
		store:     NewStore(repo),
		cache:     redisCache,
		countsTTL: countsTTL,
		listLimit: listLimit,
		logger:    logging.GetLogger().With(zap.String("component", "notify-dispatcher")),
	}
}

// Dispatch records the event as a notification unless the recipient's
// in-app preference for kind is disabled. Suppression returns (nil, nil):
// a designed no-op, not an error. The preference read is not transactional
// with the triggering action; under concurrent identical triggers a
// notification may be lost but never duplicated.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID, actorID int64, verb string, kind int16, target *TargetRef) (*models.Notification, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, fmt.Errorf("invalid notification kind: %d", kind)
	}

	setting, err := d.store.GetOrCreateSetting(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}

	if !setting.Allows(kind, models.ChannelInApp) {
		d.logger.Debug("Notification suppressed by preference",
			zap.Int64("recipient_id", recipientID),
			zap.String("kind", KindName(kind)))
		return nil, nil
	}

	notif := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}

	if target != nil {
		exists, err := d.store.TargetExists(ctx, target.Kind, target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve target: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s %d", ErrTargetNotFound, target.Kind, target.ID)
		}
		notif.TargetKind = sql.NullString{String: target.Kind, Valid: true}
		notif.TargetID = sql.NullInt64{Int64: target.ID, Valid: true}
	}

	if err := d.store.CreateNotification(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	d.invalidateUnread(ctx, recipientID)
	d.logger.Debug("Notification recorded",
		zap.Int64("recipient_id", recipientID),
		zap.Int64("actor_id", actorID),
		zap.String("kind", KindName(kind)))

	return notif, nil
}

// List returns the recipient's notifications newest first, optionally
// filtered by read state and kind
func (d *Dispatcher) List(ctx context.Context, recipientID int64, opts ListOptions) ([]*models.Notification, error) {
	filter := db.ListFilter{
		IsRead: opts.IsRead,
		LastID: opts.LastID,
		Limit:  d.clampLimit(opts.Limit),
	}
	if opts.Kind != "" {
		kind, err := ParseKind(opts.Kind)
		if err != nil {
			return nil, err
		}
		filter.Kind = &kind
	}
	return d.store.ListByRecipient(ctx, recipientID, filter)
}

// MarkRead marks one of the recipient's notifications as read. A
// notification id outside the recipient's scope fails with ErrNotFound.
func (d *Dispatcher) MarkRead(ctx context.Context, recipientID, notifID int64) error {
	return d.setRead(ctx, recipientID, notifID, true)
}

// MarkUnread marks one of the recipient's notifications as unread
func (d *Dispatcher) MarkUnread(ctx context.Context, recipientID, notifID int64) error {
	return d.setRead(ctx, recipientID, notifID, false)
}

func (d *Dispatcher) setRead(ctx context.Context, recipientID, notifID int64, read bool) error {
	matched, err := d.store.SetRead(ctx, recipientID, notifID, read)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: id %d", ErrNotFound, notifID)
	}
	d.invalidateUnread(ctx, recipientID)
	return nil
}

// MarkAllRead marks every unread notification of the recipient as read and
// returns how many were updated
func (d *Dispatcher) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	updated, err := d.store.SetAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		d.invalidateUnread(ctx, recipientID)
	}
	return updated, nil
}

// UnreadCount returns the recipient's unread notification count, briefly
// cached; cache failures fall through to the database
func (d *Dispatcher) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	if count, err := d.cache.GetInt64(ctx, unreadKey(recipientID)); err == nil {
		return count, nil
	}

	count, err := d.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if err := d.cache.Set(ctx, unreadKey(recipientID), count, d.countsTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		d.logger.Warn("Failed to cache unread count", zap.Error(err))
	}
	return count, nil
}

// requireUser fails with ErrUserNotFound when the id does not name an
// existing user
func (d *Dispatcher) requireUser(ctx context.Context, userID int64) error {
	exists, err := d.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}
	return nil
}

func (d *Dispatcher) clampLimit(limit int) int {
	if limit <= 0 || limit > d.listLimit {
		return d.listLimit
	}
	return limit
}

func unreadKey(recipientID int64) string {
	return fmt.Sprintf("notify:unread:%d", recipientID)
}

func (d *Dispatcher) invalidateUnread(ctx context.Context, recipientID int64) {
	if err := d.cache.Delete(ctx, unreadKey(recipientID)); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		d.logger.Warn("Failed to invalidate unread cache", zap.Error(err))
	}
}
