package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterContactRoutes registers the contact graph routes.
func (rt *Router) RegisterContactRoutes(r *gin.Engine) {
	group := r.Group("/contact", middleware.Auth())
	group.GET("/list", rt.handlers.Contact.List)
	group.POST("/remove", rt.handlers.Contact.Remove)
}
