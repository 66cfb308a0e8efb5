package router

import (
	"unitcom_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRtcRoutes registers the call token route.
func (rt *Router) RegisterRtcRoutes(r *gin.Engine) {
	group := r.Group("/rtc", middleware.Auth())
	group.GET("/token", rt.handlers.Rtc.Token)
}
