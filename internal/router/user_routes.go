package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the current-user routes.
func (rt *Router) RegisterUserRoutes(r *gin.Engine) {
	group := r.Group("/user", middleware.Auth())
	group.GET("/me", rt.handlers.User.Me)
}
