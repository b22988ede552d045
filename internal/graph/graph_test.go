package graph

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/models"
)

// fakeStore keeps the edge set in memory so the graph semantics can be
// exercised without a database
type fakeStore struct {
	users map[int64]bool
	edges map[[2]int64]bool
}

func newFakeStore(userIDs ...int64) *fakeStore {
	s := &fakeStore{
		users: make(map[int64]bool),
		edges: make(map[[2]int64]bool),
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *fakeStore) CreateEdge(_ context.Context, followerID, followeeID int64) (bool, error) {
	key := [2]int64{followerID, followeeID}
	if s.edges[key] {
		return false, nil
	}
	s.edges[key] = true
	return true, nil
}

func (s *fakeStore) RemoveEdge(_ context.Context, followerID, followeeID int64) (bool, error) {
	key := [2]int64{followerID, followeeID}
	if !s.edges[key] {
		return false, nil
	}
	delete(s.edges, key)
	return true, nil
}

func (s *fakeStore) EdgeExists(_ context.Context, followerID, followeeID int64) (bool, error) {
	return s.edges[[2]int64{followerID, followeeID}], nil
}

func (s *fakeStore) Followers(_ context.Context, userID int64, limit int) ([]*models.User, error) {
	var users []*models.User
	for edge := range s.edges {
		if edge[1] == userID && len(users) < limit {
			users = append(users, &models.User{ID: edge[0]})
		}
	}
	return users, nil
}

func (s *fakeStore) Following(_ context.Context, userID int64, limit int) ([]*models.User, error) {
	var users []*models.User
	for edge := range s.edges {
		if edge[0] == userID && len(users) < limit {
			users = append(users, &models.User{ID: edge[1]})
		}
	}
	return users, nil
}

func (s *fakeStore) CountFollowers(_ context.Context, userID int64) (int64, error) {
	var count int64
	for edge := range s.edges {
		if edge[1] == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) CountFollowing(_ context.Context, userID int64) (int64, error) {
	var count int64
	for edge := range s.edges {
		if edge[0] == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) UserExists(_ context.Context, userID int64) (bool, error) {
	return s.users[userID], nil
}

func newTestGraph(store Store) *Graph {
	return &Graph{
		store:     store,
		listLimit: 1000,
		logger:    zap.NewNop(),
	}
}

func TestFollowRejectsSelfEdge(t *testing.T) {
	g := &Graph{}

	if _, err := g.Follow(context.Background(), 7, 7); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("Follow(u, u) error = %v, want ErrSelfFollow", err)
	}
}

func TestFollowIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	g := newTestGraph(store)

	first, err := g.Follow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Follow() error: %v", err)
	}
	if !first.Changed {
		t.Error("first Follow() should report Changed")
	}

	second, err := g.Follow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("duplicate Follow() error: %v", err)
	}
	if second.Changed {
		t.Error("duplicate Follow() must be a no-op")
	}
	if len(store.edges) != 1 {
		t.Errorf("edge count = %d, want exactly 1", len(store.edges))
	}
	if second.Target.Followers != 1 {
		t.Errorf("target followers = %d, want 1", second.Target.Followers)
	}
}

func TestUnfollowMissingEdge(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(newFakeStore(1, 2))

	result, err := g.Unfollow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Unfollow() of a missing edge should not fail: %v", err)
	}
	if result.Changed {
		t.Error("Unfollow() of a missing edge must report Changed=false")
	}

	// Self-unfollow falls out the same way
	if result, err = g.Unfollow(ctx, 1, 1); err != nil {
		t.Fatalf("self Unfollow() should not fail: %v", err)
	}
	if result.Changed {
		t.Error("self Unfollow() must be a no-op")
	}
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(1, 2)
	g := newTestGraph(store)

	if _, err := g.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("Follow() error: %v", err)
	}
	following, err := g.IsFollowing(ctx, 1, 2)
	if err != nil || !following {
		t.Fatalf("IsFollowing() = %v, %v, want true", following, err)
	}

	result, err := g.Unfollow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Unfollow() error: %v", err)
	}
	if !result.Changed {
		t.Error("Unfollow() of an existing edge should report Changed")
	}
	if result.Target.Followers != 0 || result.Actor.Following != 0 {
		t.Errorf("counts after unfollow = %+v, want zeroes", result)
	}
	if len(store.edges) != 0 {
		t.Errorf("edge count = %d, want 0", len(store.edges))
	}
}

func TestFollowUnknownUser(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(newFakeStore(1))

	if _, err := g.Follow(ctx, 1, 99); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Follow() to unknown user error = %v, want ErrUserNotFound", err)
	}
	if _, err := g.Unfollow(ctx, 99, 1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Unfollow() from unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestCountsMatchLists(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(newFakeStore(1, 2, 3))

	for _, follower := range []int64{2, 3} {
		if _, err := g.Follow(ctx, follower, 1); err != nil {
			t.Fatalf("Follow(%d, 1) error: %v", follower, err)
		}
	}

	counts, err := g.Counts(ctx, 1)
	if err != nil {
		t.Fatalf("Counts() error: %v", err)
	}
	followers, err := g.Followers(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Followers() error: %v", err)
	}
	if counts.Followers != int64(len(followers)) {
		t.Errorf("Counts.Followers = %d, list has %d", counts.Followers, len(followers))
	}
	if counts.Following != 0 {
		t.Errorf("Counts.Following = %d, want 0", counts.Following)
	}
}

func TestClampLimit(t *testing.T) {
	g := &Graph{listLimit: 1000}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"zero uses max", 0, 1000},
		{"negative uses max", -5, 1000},
		{"over max clamped", 5000, 1000},
		{"in range kept", 50, 50},
		{"exactly max kept", 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.clampLimit(tt.limit); got != tt.expected {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.expected)
			}
		})
	}
}

func TestCountCacheKeys(t *testing.T) {
	if followersKey(42) != "counts:followers:42" {
		t.Errorf("followersKey(42) = %s", followersKey(42))
	}
	if followingKey(42) != "counts:following:42" {
		t.Errorf("followingKey(42) = %s", followingKey(42))
	}
	if followersKey(1) == followingKey(1) {
		t.Error("follower and following keys must not collide")
	}
}

func TestCachedCountsDisabledCache(t *testing.T) {
	g := &Graph{}

	// With no cache configured the lookup must miss, never panic
	if _, ok := g.cachedCounts(context.Background(), 1); ok {
		t.Error("cachedCounts() with nil cache should miss")
	}
}
