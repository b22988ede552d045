package graph

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
)

// Store is the persistence surface of the follow graph. The gorm-backed
// implementation owns the transactional coupling between an edge write and
// the denormalized counter columns; keeping it behind an interface lets the
// graph semantics be exercised without a database.
type Store interface {
	CreateEdge(ctx context.Context, followerID, followeeID int64) (bool, error)
	RemoveEdge(ctx context.Context, followerID, followeeID int64) (bool, error)
	EdgeExists(ctx context.Context, followerID, followeeID int64) (bool, error)
	Followers(ctx context.Context, userID int64, limit int) ([]*models.User, error)
	Following(ctx context.Context, userID int64, limit int) ([]*models.User, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type gormStore struct {
	repo *db.Repository
}

// NewStore creates the gorm-backed graph store
func NewStore(repo *db.Repository) Store {
	return &gormStore{repo: repo}
}

// CreateEdge inserts the edge and adjusts both endpoints' counter columns
// in one transaction. A duplicate edge reports created=false and leaves the
// counters untouched.
func (s *gormStore) CreateEdge(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var created bool
	err := s.repo.Transaction(ctx, func(txRepo *db.Repository) error {
		var err error
		created, err = db.NewFollowRepository(txRepo).Insert(ctx, followerID, followeeID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert follow edge: %w", err)
		}
		if !created {
			return nil
		}
		return adjustFollowStats(ctx, txRepo, followerID, followeeID, 1)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// RemoveEdge deletes the edge and adjusts the counter columns in one
// transaction. A missing edge reports removed=false.
func (s *gormStore) RemoveEdge(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var removed bool
	err := s.repo.Transaction(ctx, func(txRepo *db.Repository) error {
		var err error
		removed, err = db.NewFollowRepository(txRepo).Delete(ctx, followerID, followeeID)
		if err != nil {
			return fmt.Errorf("failed to delete follow edge: %w", err)
		}
		if !removed {
			return nil
		}
		return adjustFollowStats(ctx, txRepo, followerID, followeeID, -1)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *gormStore) EdgeExists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return db.NewFollowRepository(s.repo).Exists(ctx, followerID, followeeID)
}

func (s *gormStore) Followers(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	return db.NewFollowRepository(s.repo).GetFollowers(ctx, userID, limit)
}

func (s *gormStore) Following(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	return db.NewFollowRepository(s.repo).GetFollowing(ctx, userID, limit)
}

func (s *gormStore) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return db.NewFollowRepository(s.repo).CountFollowers(ctx, userID)
}

func (s *gormStore) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	return db.NewFollowRepository(s.repo).CountFollowing(ctx, userID)
}

func (s *gormStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	user, err := db.NewUserRepository(s.repo).GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// adjustFollowStats applies delta to the denormalized counter columns on
// both endpoints, inside the caller's transaction
func adjustFollowStats(ctx context.Context, txRepo *db.Repository, followerID, followeeID int64, delta int) error {
	tx := txRepo.DB().WithContext(ctx)
	if err := tx.Model(&models.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following", gorm.Expr("following + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to update following count: %w", err)
	}
	if err := tx.Model(&models.User{}).
		Where("id = ?", followeeID).
		UpdateColumn("followers", gorm.Expr("followers + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to update followers count: %w", err)
	}
	return nil
}
