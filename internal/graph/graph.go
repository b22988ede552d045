package graph

import (
	"context"
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
	// ErrSelfFollow is returned when a user attempts to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrUserNotFound is returned when an endpoint of the edge does not exist
	ErrUserNotFound = errors.New("user not found")
)

// Counts holds the cardinalities of a user's edge sets
type Counts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// FollowResult reports the outcome of a follow or unfollow action
type FollowResult struct {
	Changed bool   `json:"changed"` // whether an edge was created/removed
	Actor   Counts `json:"actor"`
	Target  Counts `json:"target"`
}

// Graph maintains the directed follow relation between users
type Graph struct {
	store     Store
	cache     *cache.Cache
	countsTTL time.Duration
	listLimit int
	logger    *zap.Logger
}

// New creates a follow graph service backed by the gorm store
func New(repo *db.Repository, redisCache *cache.Cache, countsTTL time.Duration, listLimit int) *Graph {
	return &Graph{
		store:     NewStore(repo),
		cache:     redisCache,
		countsTTL: countsTTL,
		listLimit: listLimit,
		logger:    logging.GetLogger().With(zap.String("component", "follow-graph")),
	}
}

// Follow inserts the edge (actor, target) if absent. Duplicate follows are
// a no-op reported through FollowResult.Changed; a self-follow fails with
// ErrSelfFollow. The uniqueness check is left to the storage layer so
// concurrent identical follows cannot race past an application-level probe.
func (g *Graph) Follow(ctx context.Context, actorID, targetID int64) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrSelfFollow
	}
	if err := g.requireUsers(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	created, err := g.store.CreateEdge(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if created {
		g.invalidateCounts(ctx, actorID, targetID)
		g.logger.Debug("Follow edge created",
			zap.Int64("follower_id", actorID),
			zap.Int64("followee_id", targetID))
	}

	return g.buildResult(ctx, created, actorID, targetID)
}

// Unfollow removes the edge (actor, target) if present. A missing edge is
// a no-op, not an error; that covers self-unfollow, since a self-edge can
// never exist.
func (g *Graph) Unfollow(ctx context.Context, actorID, targetID int64) (*FollowResult, error) {
	if err := g.requireUsers(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	removed, err := g.store.RemoveEdge(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if removed {
		g.invalidateCounts(ctx, actorID, targetID)
		g.logger.Debug("Follow edge removed",
			zap.Int64("follower_id", actorID),
			zap.Int64("followee_id", targetID))
	}

	return g.buildResult(ctx, removed, actorID, targetID)
}

// IsFollowing reports whether the edge (actor, target) exists
func (g *Graph) IsFollowing(ctx context.Context, actorID, targetID int64) (bool, error) {
	return g.store.EdgeExists(ctx, actorID, targetID)
}

// Followers returns the users following the given user, in edge insertion
// order. Callers needing other orderings or pagination apply them on top.
func (g *Graph) Followers(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	if err := g.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return g.store.Followers(ctx, userID, g.clampLimit(limit))
}

// Following returns the users the given user follows, in edge insertion order
func (g *Graph) Following(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	if err := g.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	return g.store.Following(ctx, userID, g.clampLimit(limit))
}

// Counts returns the user's follower and following counts as direct
// cardinalities of the edge sets, so they always agree with Followers and
// Following. Results are cached briefly; cache failures fall through to
// the database.
func (g *Graph) Counts(ctx context.Context, userID int64) (Counts, error) {
	if cached, ok := g.cachedCounts(ctx, userID); ok {
		return cached, nil
	}

	followers, err := g.store.CountFollowers(ctx, userID)
	if err != nil {
		return Counts{}, err
	}
	following, err := g.store.CountFollowing(ctx, userID)
	if err != nil {
		return Counts{}, err
	}

	counts := Counts{Followers: followers, Following: following}
	g.storeCounts(ctx, userID, counts)
	return counts, nil
}

func (g *Graph) buildResult(ctx context.Context, changed bool, actorID, targetID int64) (*FollowResult, error) {
	actorCounts, err := g.Counts(ctx, actorID)
	if err != nil {
		return nil, err
	}
	targetCounts, err := g.Counts(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{
		Changed: changed,
		Actor:   actorCounts,
		Target:  targetCounts,
	}, nil
}

// requireUsers fails with ErrUserNotFound when any of the given ids does
// not name an existing user
func (g *Graph) requireUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		exists, err := g.store.UserExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
	}
	return nil
}

func (g *Graph) clampLimit(limit int) int {
	if limit <= 0 || limit > g.listLimit {
		return g.listLimit
	}
	return limit
}

func followersKey(userID int64) string {
	return fmt.Sprintf("counts:followers:%d", userID)
}

func followingKey(userID int64) string {
	return fmt.Sprintf("counts:following:%d", userID)
}

func (g *Graph) cachedCounts(ctx context.Context, userID int64) (Counts, bool) {
	followers, err := g.cache.GetInt64(ctx, followersKey(userID))
	if err != nil {
		return Counts{}, false
	}
	following, err := g.cache.GetInt64(ctx, followingKey(userID))
	if err != nil {
		return Counts{}, false
	}
	return Counts{Followers: followers, Following: following}, true
}

func (g *Graph) storeCounts(ctx context.Context, userID int64, counts Counts) {
	if err := g.cache.Set(ctx, followersKey(userID), counts.Followers, g.countsTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		g.logger.Warn("Failed to cache follower count", zap.Error(err))
	}
	if err := g.cache.Set(ctx, followingKey(userID), counts.Following, g.countsTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		g.logger.Warn("Failed to cache following count", zap.Error(err))
	}
}

func (g *Graph) invalidateCounts(ctx context.Context, userIDs ...int64) {
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, followersKey(id), followingKey(id))
	}
	if err := g.cache.Delete(ctx, keys...); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		g.logger.Warn("Failed to invalidate count cache", zap.Error(err))
	}
}
