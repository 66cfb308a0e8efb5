package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes registers the message routes.
func (rt *Router) RegisterMessageRoutes(r *gin.Engine) {
	group := r.Group("/message", middleware.Auth())
	group.POST("/send", rt.handlers.Message.Create)
	group.GET("/list", rt.handlers.Message.List)
	group.POST("/edit", rt.handlers.Message.Edit)
	group.POST("/delete", rt.handlers.Message.Delete)
	group.POST("/upload", rt.handlers.Message.Upload)
}
