// This file handles the websocket subscription endpoint.
package handler

import (
	"net/http"

	"unitcom_server/internal/gateway/websocket"
	"unitcom_server/internal/service"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler upgrades clients onto the push gateway. Browsers cannot set
// an Authorization header on a websocket dial, so the session token
// arrives as a query parameter instead of through the auth middleware.
type WsHandler struct {
	userSvc service.UserService
	manager *websocket.ConnManager
}

func NewWsHandler(userSvc service.UserService, manager *websocket.ConnManager) *WsHandler {
	return &WsHandler{userSvc: userSvc, manager: manager}
}

// Subscribe authenticates and upgrades the connection.
// GET /ws/subscribe?token=xxx
func (h *WsHandler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthenticated,
			"msg":  "missing token",
		})
		return
	}
	externalId, err := jwt.ParseSessionToken(token)
	if err != nil {
		zap.L().Debug("ws token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthenticated,
			"msg":  "invalid token",
		})
		return
	}
	user, err := h.userSvc.Resolve(externalId)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.manager.Serve(c, user.UserId)
}
