package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		// Registration and login
		auth.POST("/signup", r.authHandler.Signup)
		auth.POST("/login", r.authHandler.Login)

		// Token rotation (refresh token as bearer credential)
		auth.GET("/refresh_token", r.authHandler.RefreshToken)

		// Email confirmation flow
		auth.GET("/confirmed_email/:token", r.authHandler.ConfirmEmail)
		auth.POST("/request_email", r.authHandler.RequestEmail)
	}
}
