package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/terry001-s/socialgraph/internal/models"
)

// LikeRepository provides like database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Insert inserts a like if absent; reports whether a new row was created
func (r *LikeRepository) Insert(ctx context.Context, postID, userID int64, when time.Time) (bool, error) {
	like := &models.Like{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: when,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a like; reports whether a row was removed
func (r *LikeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByPost returns the number of likes on a post
func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
