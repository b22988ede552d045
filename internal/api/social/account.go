package social

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/terry001-s/socialgraph/internal/account"
	"github.com/terry001-s/socialgraph/internal/models"
)

// AccountAPI provides account-related API methods
type AccountAPI struct {
	accounts *account.Service
}

// NewAccountAPI creates a new account API
func NewAccountAPI(accounts *account.Service) *AccountAPI {
	return &AccountAPI{accounts: accounts}
}

// Create handles account.create
func (a *AccountAPI) Create(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.Username == "" {
		return nil, fmt.Errorf("missing required parameter: username")
	}

	user, err := a.accounts.Create(c.Request.Context(), p.Username, p.Email, p.Bio)
	if err != nil {
		return nil, err
	}
	return renderProfile(user), nil
}

// Get handles account.get
func (a *AccountAPI) Get(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	var (
		user *models.User
		err  error
	)
	switch {
	case p.UserID != 0:
		user, err = a.accounts.Get(c.Request.Context(), p.UserID)
	case p.Username != "":
		user, err = a.accounts.GetByUsername(c.Request.Context(), p.Username)
	default:
		return nil, fmt.Errorf("missing required parameter: user_id or username")
	}
	if err != nil {
		return nil, err
	}
	return renderProfile(user), nil
}

func renderProfile(user *models.User) map[string]interface{} {
	profile := map[string]interface{}{
		"id":              user.ID,
		"username":        user.Username,
		"email":           user.Email,
		"profile_image":   user.ProfileImage,
		"follower_count":  user.Followers,
		"following_count": user.Following,
		"created_at":      user.CreatedAt,
	}
	if user.Bio.Valid {
		profile["bio"] = user.Bio.String
	}
	return profile
}
