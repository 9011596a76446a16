package router

import (
	"github.com/gin-gonic/gin"

	"github.com/contactbook/contactbook/internal/middleware"
)

func (r *Router) contactRoutes(api *gin.RouterGroup) {
	contacts := api.Group("/contacts")
	{
		// All contact routes require JWT authentication and share a
		// per-user rate limit window.
		contacts.Use(r.authMw.RequireAuth())
		contacts.Use(middleware.RateLimit(r.redis, r.config.RateLimit.Request, r.config.RateLimit.Duration))
		{
			// List contacts with pagination and search filters
			contacts.GET("", r.contactHandler.List)

			// Contacts with a birthday in the next 7 days
			contacts.GET("/birthday_within_7_days", r.contactHandler.UpcomingBirthdays)

			// Single contact CRUD
			contacts.GET("/:id", r.contactHandler.Get)
			contacts.POST("", r.contactHandler.Create)
			contacts.PUT("/:id", r.contactHandler.Update)
			contacts.DELETE("/:id", r.contactHandler.Delete)
		}
	}
}
