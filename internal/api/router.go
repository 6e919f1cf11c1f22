package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/cache"
	"github.com/real-social-media/pillar/internal/db"
	"github.com/real-social-media/pillar/internal/service"
	"github.com/real-social-media/pillar/pkg/logging"
)

// Router wires the services and exposes the single operation endpoint
type Router struct {
	handler *Handler
	db      *db.DB
	cache   *cache.Cache
	store   *db.Store
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache) *Router {
	router := &Router{
		handler: NewHandler(),
		db:      database,
		cache:   redisCache,
		store:   db.NewStore(database.DB),
		logger:  logging.WithComponent("api-router"),
	}

	router.registerOperations()

	return router
}

// Store returns the backing store, used to provision users on login
func (r *Router) Store() *db.Store {
	return r.store
}

// SetupRoutes sets up all API routes. The operation endpoint sits
// behind the given auth middleware; health checks do not.
func (r *Router) SetupRoutes(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.POST("/graphql", authMiddleware, r.handler.Handle)
}

func (r *Router) registerOperations() {
	vis := service.NewVisibility(r.store)

	// A nil *cache.Cache must not become a non-nil FeedCache interface
	var feedCache service.FeedCache
	if r.cache != nil {
		feedCache = r.cache
	}
	feeds := service.NewFeedService(r.store, vis, feedCache)

	users := service.NewUserService(r.store, vis)
	relationships := service.NewRelationshipService(r.store, vis, feeds)
	posts := service.NewPostService(r.store, vis, feeds)
	likes := service.NewLikeService(r.store, vis)

	NewUserAPI(users, relationships).RegisterOperations(r.handler)
	NewPostAPI(posts).RegisterOperations(r.handler)
	NewLikeAPI(likes).RegisterOperations(r.handler)
	NewFeedAPI(feeds).RegisterOperations(r.handler)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "pillar-api",
	})
}
