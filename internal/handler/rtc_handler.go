// This file handles video-call token issuance.
package handler

import (
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// RtcHandler handles call token requests.
type RtcHandler struct {
	rtcSvc service.RtcService
}

func NewRtcHandler(rtcSvc service.RtcService) *RtcHandler {
	return &RtcHandler{rtcSvc: rtcSvc}
}

// Token mints a room-scoped call token.
// GET /rtc/token?room=xxx&username=yyy
// Query: request.LivekitTokenRequest
// Response: respond.LivekitTokenRespond
func (h *RtcHandler) Token(c *gin.Context) {
	var req request.LivekitTokenRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.rtcSvc.IssueToken(callerExternalId(c), req.Room, req.Username)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
