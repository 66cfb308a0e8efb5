// Package handler provides the HTTP request handlers. Handlers receive
// their services through constructor injection and translate between the
// transport layer and the service layer.
package handler

import (
	"unitcom_server/internal/gateway/websocket"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handlers aggregates every handler for router registration.
type Handlers struct {
	User          *UserHandler
	Webhook       *WebhookHandler
	Contact       *ContactHandler
	FriendRequest *FriendRequestHandler
	Conversation  *ConversationHandler
	Message       *MessageHandler
	Rtc           *RtcHandler
	Ws            *WsHandler
}

// NewHandlers builds every handler on top of the service aggregate and
// the websocket gateway.
func NewHandlers(svc *service.Services, manager *websocket.ConnManager, webhookSecret string) *Handlers {
	return &Handlers{
		User:          NewUserHandler(svc.UserService),
		Webhook:       NewWebhookHandler(svc.UserService, webhookSecret),
		Contact:       NewContactHandler(svc.ContactService),
		FriendRequest: NewFriendRequestHandler(svc.FriendRequestService),
		Conversation:  NewConversationHandler(svc.ConversationService),
		Message:       NewMessageHandler(svc.MessageService),
		Rtc:           NewRtcHandler(svc.RtcService),
		Ws:            NewWsHandler(svc.UserService, manager),
	}
}

// callerExternalId reads the authenticated external auth id set by the
// auth middleware, empty when absent.
func callerExternalId(c *gin.Context) string {
	return c.GetString("external_id")
}
