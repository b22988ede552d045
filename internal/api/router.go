package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/internal/account"
	"github.com/terry001-s/socialgraph/internal/api/inbox"
	"github.com/terry001-s/socialgraph/internal/api/posts"
	"github.com/terry001-s/socialgraph/internal/api/social"
	"github.com/terry001-s/socialgraph/internal/cache"
	"github.com/terry001-s/socialgraph/internal/content"
	"github.com/terry001-s/socialgraph/internal/db"
	"github.com/terry001-s/socialgraph/internal/graph"
	"github.com/terry001-s/socialgraph/internal/notify"
	"github.com/terry001-s/socialgraph/pkg/config"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.SocialConfig) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler: handler,
		db:      database,
		cache:   redisCache,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}

	// Register all API methods
	router.registerMethods(cfg)

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods(cfg *config.SocialConfig) {
	repo := db.NewRepository(r.db.DB)
	countsTTL := time.Duration(cfg.CountsTTLSecs) * time.Second

	followGraph := graph.New(repo, r.cache, countsTTL, cfg.FollowListLimit)
	dispatcher := notify.NewDispatcher(repo, r.cache, countsTTL, cfg.NotifyListLimit)
	accounts := account.NewService(repo)
	contentService := content.NewService(repo, dispatcher, cfg.FeedListLimit)

	// Social API
	socialFollow := social.NewFollowAPI(followGraph, dispatcher)
	socialAccount := social.NewAccountAPI(accounts)

	r.handler.RegisterMethod("social.follow", socialFollow.Follow)
	r.handler.RegisterMethod("social.unfollow", socialFollow.Unfollow)
	r.handler.RegisterMethod("social.is_following", socialFollow.IsFollowing)
	r.handler.RegisterMethod("social.get_followers", socialFollow.GetFollowers)
	r.handler.RegisterMethod("social.get_following", socialFollow.GetFollowing)
	r.handler.RegisterMethod("social.get_follow_count", socialFollow.GetFollowCount)

	r.handler.RegisterMethod("account.create", socialAccount.Create)
	r.handler.RegisterMethod("account.get", socialAccount.Get)

	// Notification API
	inboxNotify := inbox.NewNotifyAPI(dispatcher)
	inboxSettings := inbox.NewSettingsAPI(dispatcher)

	r.handler.RegisterMethod("notify.account_notifications", inboxNotify.AccountNotifications)
	r.handler.RegisterMethod("notify.unread_count", inboxNotify.UnreadCount)
	r.handler.RegisterMethod("notify.mark_read", inboxNotify.MarkRead)
	r.handler.RegisterMethod("notify.mark_unread", inboxNotify.MarkUnread)
	r.handler.RegisterMethod("notify.mark_all_read", inboxNotify.MarkAllRead)
	r.handler.RegisterMethod("notify.get_settings", inboxSettings.GetSettings)
	r.handler.RegisterMethod("notify.set_settings", inboxSettings.SetSettings)

	// Content API
	postAPI := posts.NewPostAPI(contentService)

	r.handler.RegisterMethod("content.create_post", postAPI.CreatePost)
	r.handler.RegisterMethod("content.feed", postAPI.Feed)
	r.handler.RegisterMethod("content.create_comment", postAPI.CreateComment)
	r.handler.RegisterMethod("content.like_post", postAPI.LikePost)
	r.handler.RegisterMethod("content.unlike_post", postAPI.UnlikePost)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "socialgraph-api",
	})
}
