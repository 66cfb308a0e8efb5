package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterFriendRequestRoutes registers the friend request routes.
func (rt *Router) RegisterFriendRequestRoutes(r *gin.Engine) {
	group := r.Group("/friend", middleware.Auth())
	group.POST("/request", rt.handlers.FriendRequest.Create)
	group.POST("/accept", rt.handlers.FriendRequest.Accept)
	group.POST("/decline", rt.handlers.FriendRequest.Decline)
	group.GET("/requests", rt.handlers.FriendRequest.List)
}
