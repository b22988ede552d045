package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/internal/notify"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

var (
	// ErrPostNotFound is returned when the post does not exist
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when the acting user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// FollowVerb is the verb recorded on follow notifications
const FollowVerb = "started following you"

// LikeVerb builds the verb recorded on like notifications
func LikeVerb(postTitle string) string {
	return fmt.Sprintf("liked your post: %s", postTitle)
}

// CommentVerb builds the verb recorded on comment notifications
func CommentVerb(postTitle string) string {
	return fmt.Sprintf("commented on your post: %s", postTitle)
}

// Service manages posts, comments and likes, and drives notification
// dispatch for them
type Service struct {
	repo       *db.Repository
	dispatcher *notify.Dispatcher
	feedLimit  int
	logger     *zap.Logger
}

// NewService creates a new content service
func NewService(repo *db.Repository, dispatcher *notify.Dispatcher, feedLimit int) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		feedLimit:  feedLimit,
		logger:     logging.GetLogger().With(zap.String("component", "content-service")),
	}
}

// CreatePost creates a post
func (s *Service) CreatePost(ctx context.Context, authorID int64, title, body string) (*models.Post, error) {
	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  body,
	}
	if err := db.NewPostRepository(s.repo).Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a post by id
func (s *Service) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := db.NewPostRepository(s.repo).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPostNotFound, id)
	}
	return post, nil
}

// Feed returns posts authored by the users the caller follows, newest
// first, paginated by a descending id cursor
func (s *Service) Feed(ctx context.Context, userID, lastID int64, limit int) ([]*models.Post, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return db.NewPostRepository(s.repo).GetFeed(ctx, userID, lastID, s.clampLimit(limit))
}

// CreateComment creates a comment on a post and notifies the post author,
// unless they are commenting on their own post. The dispatch happens after
// the comment is persisted and is not atomic with it; a dispatch failure
// loses the notification, never the comment.
func (s *Service) CreateComment(ctx context.Context, postID, authorID int64, body string) (*models.Comment, error) {
	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  body,
	}
	if err := db.NewCommentRepository(s.repo).Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.AuthorID != authorID {
		target := &notify.TargetRef{Kind: models.TargetComment, ID: comment.ID}
		if _, err := s.dispatcher.Dispatch(ctx, post.AuthorID, authorID, CommentVerb(post.Title), models.KindComment, target); err != nil {
			s.logger.Warn("Failed to dispatch comment notification",
				zap.Int64("post_id", postID),
				zap.Error(err))
		}
	}

	return comment, nil
}

// LikePost records a like on a post, idempotently, and notifies the post
// author on a newly created like unless they liked their own post
func (s *Service) LikePost(ctx context.Context, postID, userID int64) (bool, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	created, err := db.NewLikeRepository(s.repo).Insert(ctx, postID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	if created && post.AuthorID != userID {
		target := &notify.TargetRef{Kind: models.TargetPost, ID: postID}
		if _, err := s.dispatcher.Dispatch(ctx, post.AuthorID, userID, LikeVerb(post.Title), models.KindLike, target); err != nil {
			s.logger.Warn("Failed to dispatch like notification",
				zap.Int64("post_id", postID),
				zap.Error(err))
		}
	}

	return created, nil
}

// UnlikePost removes a like; a missing like is a no-op
func (s *Service) UnlikePost(ctx context.Context, postID, userID int64) (bool, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return false, err
	}
	removed, err := db.NewLikeRepository(s.repo).Delete(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return removed, nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	user, err := db.NewUserRepository(s.repo).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}
	return nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 || limit > s.feedLimit {
		return s.feedLimit
	}
	return limit
}
