// This file handles the friend request API.
package handler

import (
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendRequestHandler handles friend request state transitions.
type FriendRequestHandler struct {
	requestSvc service.FriendRequestService
}

func NewFriendRequestHandler(requestSvc service.FriendRequestService) *FriendRequestHandler {
	return &FriendRequestHandler{requestSvc: requestSvc}
}

// Create sends a friend request by receiver email.
// POST /friend/request
// Body: request.CreateFriendRequestRequest
func (h *FriendRequestHandler) Create(c *gin.Context) {
	var req request.CreateFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	requestId, err := h.requestSvc.Create(callerExternalId(c), req.Email)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"request_id": requestId})
}

// Accept accepts a pending request addressed to the caller.
// POST /friend/accept
// Body: request.HandleFriendRequestRequest
func (h *FriendRequestHandler) Accept(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.requestSvc.Accept(callerExternalId(c), req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Decline declines a pending request addressed to the caller.
// POST /friend/decline
// Body: request.HandleFriendRequestRequest
func (h *FriendRequestHandler) Decline(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.requestSvc.Decline(callerExternalId(c), req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// List returns pending requests addressed to the caller.
// GET /friend/requests
// Response: []respond.FriendRequestRespond
func (h *FriendRequestHandler) List(c *gin.Context) {
	data, err := h.requestSvc.List(callerExternalId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
