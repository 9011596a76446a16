package router

import (
	"github.com/gin-gonic/gin"

	"github.com/contactbook/contactbook/config"
	"github.com/contactbook/contactbook/internal/handler"
	"github.com/contactbook/contactbook/internal/middleware"
	"github.com/contactbook/contactbook/pkg/redis"
)

type Router struct {
	authHandler    *handler.AuthHandler
	contactHandler *handler.ContactHandler
	healthHandler  *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	redis  redis.Client
	config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	contact *handler.ContactHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	redisClient redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		contactHandler: contact,
		healthHandler:  health,
		authMw:         authMw,
		redis:          redisClient,
		config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.Check)

		r.authRoutes(api)
		r.contactRoutes(api)
	}

	return router
}
