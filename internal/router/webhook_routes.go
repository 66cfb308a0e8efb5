package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the identity-provider webhook. No auth
// middleware here: the delivery is authenticated by its own signature.
func (rt *Router) RegisterWebhookRoutes(r *gin.Engine) {
	r.POST("/webhook/auth", rt.handlers.Webhook.AuthEvents)
}
