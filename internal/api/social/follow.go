package social

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/content"
	"github.com/terry001-s/socialgraph/internal/graph"
	"github.com/terry001-s/socialgraph/internal/models"
	"github.com/terry001-s/socialgraph/internal/notify"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

// FollowAPI provides follow-related API methods
type FollowAPI struct {
	graph      *graph.Graph
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(followGraph *graph.Graph, dispatcher *notify.Dispatcher) *FollowAPI {
	return &FollowAPI{
		graph:      followGraph,
		dispatcher: dispatcher,
		logger:     logging.GetLogger().With(zap.String("component", "social-api-follow")),
	}
}

type followParams struct {
	ActorID  int64 `json:"actor_id"`
	TargetID int64 `json:"target_id"`
}

// Follow handles social.follow
func (f *FollowAPI) Follow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.ActorID == 0 || p.TargetID == 0 {
		return nil, fmt.Errorf("missing required parameters: actor_id, target_id")
	}

	result, err := f.graph.Follow(c.Request.Context(), p.ActorID, p.TargetID)
	if err != nil {
		return nil, err
	}

	// Record the event for the followee. The dispatcher owns the
	// preference gate; a dispatch failure loses the notification, not
	// the follow.
	if result.Changed {
		if _, err := f.dispatcher.Dispatch(c.Request.Context(), p.TargetID, p.ActorID, content.FollowVerb, models.KindFollow, nil); err != nil {
			f.logger.Warn("Failed to dispatch follow notification",
				zap.Int64("follower_id", p.ActorID),
				zap.Int64("followee_id", p.TargetID),
				zap.Error(err))
		}
	}

	return map[string]interface{}{
		"created": result.Changed,
		"actor":   result.Actor,
		"target":  result.Target,
	}, nil
}

// Unfollow handles social.unfollow
func (f *FollowAPI) Unfollow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.ActorID == 0 || p.TargetID == 0 {
		return nil, fmt.Errorf("missing required parameters: actor_id, target_id")
	}

	result, err := f.graph.Unfollow(c.Request.Context(), p.ActorID, p.TargetID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"removed": result.Changed,
		"actor":   result.Actor,
		"target":  result.Target,
	}, nil
}

// IsFollowing handles social.is_following
func (f *FollowAPI) IsFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.ActorID == 0 || p.TargetID == 0 {
		return nil, fmt.Errorf("missing required parameters: actor_id, target_id")
	}

	following, err := f.graph.IsFollowing(c.Request.Context(), p.ActorID, p.TargetID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"following": following}, nil
}

type listParams struct {
	UserID int64 `json:"user_id"`
	Limit  int   `json:"limit"`
}

// GetFollowers handles social.get_followers
func (f *FollowAPI) GetFollowers(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p listParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	users, err := f.graph.Followers(c.Request.Context(), p.UserID, p.Limit)
	if err != nil {
		return nil, err
	}
	return renderUsers(users), nil
}

// GetFollowing handles social.get_following
func (f *FollowAPI) GetFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p listParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	users, err := f.graph.Following(c.Request.Context(), p.UserID, p.Limit)
	if err != nil {
		return nil, err
	}
	return renderUsers(users), nil
}

// GetFollowCount handles social.get_follow_count
func (f *FollowAPI) GetFollowCount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p listParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	counts, err := f.graph.Counts(c.Request.Context(), p.UserID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"user_id":         p.UserID,
		"follower_count":  counts.Followers,
		"following_count": counts.Following,
	}, nil
}

func renderUsers(users []*models.User) []interface{} {
	result := make([]interface{}, 0, len(users))
	for _, user := range users {
		result = append(result, map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
		})
	}
	return result
}
