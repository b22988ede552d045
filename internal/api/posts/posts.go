package posts

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/terry001-s/socialgraph/internal/content"
	"github.com/terry001-s/socialgraph/internal/models"
)

// PostAPI provides post, comment and like API methods
type PostAPI struct {
	content *content.Service
}

// NewPostAPI creates a new post API
func NewPostAPI(contentService *content.Service) *PostAPI {
	return &PostAPI{content: contentService}
}

// CreatePost handles content.create_post
func (a *PostAPI) CreatePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		AuthorID int64  `json:"author_id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.AuthorID == 0 || p.Title == "" {
		return nil, fmt.Errorf("missing required parameters: author_id, title")
	}

	post, err := a.content.CreatePost(c.Request.Context(), p.AuthorID, p.Title, p.Content)
	if err != nil {
		return nil, err
	}
	return renderPost(post), nil
}

// Feed handles content.feed: posts authored by the users the caller
// follows, newest first
func (a *PostAPI) Feed(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
		LastID int64 `json:"last_id"`
		Limit  int   `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	feed, err := a.content.Feed(c.Request.Context(), p.UserID, p.LastID, p.Limit)
	if err != nil {
		return nil, err
	}

	rendered := make([]map[string]interface{}, 0, len(feed))
	for _, post := range feed {
		rendered = append(rendered, renderPost(post))
	}
	return rendered, nil
}

// CreateComment handles content.create_comment
func (a *PostAPI) CreateComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		PostID   int64  `json:"post_id"`
		AuthorID int64  `json:"author_id"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.PostID == 0 || p.AuthorID == 0 || p.Content == "" {
		return nil, fmt.Errorf("missing required parameters: post_id, author_id, content")
	}

	comment, err := a.content.CreateComment(c.Request.Context(), p.PostID, p.AuthorID, p.Content)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	}, nil
}

type likeParams struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

// LikePost handles content.like_post
func (a *PostAPI) LikePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p likeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.PostID == 0 || p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameters: post_id, user_id")
	}

	liked, err := a.content.LikePost(c.Request.Context(), p.PostID, p.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"liked": liked}, nil
}

// UnlikePost handles content.unlike_post
func (a *PostAPI) UnlikePost(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p likeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.PostID == 0 || p.UserID == 0 {
		return nil, fmt.Errorf("missing required parameters: post_id, user_id")
	}

	removed, err := a.content.UnlikePost(c.Request.Context(), p.PostID, p.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"removed": removed}, nil
}

func renderPost(post *models.Post) map[string]interface{} {
	return map[string]interface{}{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"title":      post.Title,
		"content":    post.Content,
		"created_at": post.CreatedAt,
	}
}
