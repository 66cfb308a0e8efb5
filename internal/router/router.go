// Package router registers the HTTP routes. This file is the entry
// point; the per-module files group the routes by domain.
package router

import (
	"unitcom_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// Router holds the handler aggregate and registers routes against it.
type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers every route group. Called once from
// https_server.Init.
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterWebhookRoutes(r)       // provider webhook (own signature check)
	rt.RegisterUserRoutes(r)          // current user
	rt.RegisterContactRoutes(r)       // contact graph
	rt.RegisterFriendRequestRoutes(r) // friend requests
	rt.RegisterConversationRoutes(r)  // conversations, groups, read tracking
	rt.RegisterMessageRoutes(r)       // messages and attachments
	rt.RegisterRtcRoutes(r)           // call tokens
	rt.RegisterWebSocketRoutes(r)     // push gateway
}
