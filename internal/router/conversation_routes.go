package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterConversationRoutes registers the conversation routes.
func (rt *Router) RegisterConversationRoutes(r *gin.Engine) {
	group := r.Group("/conversation", middleware.Auth())
	group.GET("/list", rt.handlers.Conversation.List)
	group.GET("/get", rt.handlers.Conversation.Get)
	group.POST("/createGroup", rt.handlers.Conversation.CreateGroup)
	group.POST("/leaveGroup", rt.handlers.Conversation.LeaveGroup)
	group.POST("/deleteGroup", rt.handlers.Conversation.DeleteGroup)
	group.POST("/editGroupName", rt.handlers.Conversation.EditGroupName)
	group.POST("/markAsRead", rt.handlers.Conversation.MarkAsRead)
	group.POST("/typing", rt.handlers.Conversation.Typing)
}
