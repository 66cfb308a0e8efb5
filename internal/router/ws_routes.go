package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the push gateway. The session token
// travels as a query parameter, so the handler authenticates itself
// instead of going through the auth middleware.
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws/subscribe", rt.handlers.Ws.Subscribe)
}
