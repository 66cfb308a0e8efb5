// This file handles the conversation API: list aggregation, group
// lifecycle, read tracking and typing.
package handler

import (
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler handles conversation requests.
type ConversationHandler struct {
	conversationSvc service.ConversationService
}

func NewConversationHandler(conversationSvc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationSvc: conversationSvc}
}

// List returns the caller's conversation list with previews and unseen
// counts.
// GET /conversation/list
// Response: []respond.ConversationListItemRespond
func (h *ConversationHandler) List(c *gin.Context) {
	data, err := h.conversationSvc.List(callerExternalId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Get returns one conversation's detail view.
// GET /conversation/get?conversation_id=xxx
// Query: request.GetConversationRequest
// Response: respond.ConversationDetailRespond
func (h *ConversationHandler) Get(c *gin.Context) {
	var req request.GetConversationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.conversationSvc.Get(callerExternalId(c), req.ConversationId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CreateGroup creates a group conversation.
// POST /conversation/createGroup
// Body: request.CreateGroupRequest
func (h *ConversationHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.CreateGroup(callerExternalId(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveGroup removes the caller from a group.
// POST /conversation/leaveGroup
// Body: request.ConversationIdRequest
func (h *ConversationHandler) LeaveGroup(c *gin.Context) {
	var req request.ConversationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.LeaveGroup(callerExternalId(c), req.ConversationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteGroup deletes a group and its history.
// POST /conversation/deleteGroup
// Body: request.ConversationIdRequest
func (h *ConversationHandler) DeleteGroup(c *gin.Context) {
	var req request.ConversationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.DeleteGroup(callerExternalId(c), req.ConversationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// EditGroupName renames a group.
// POST /conversation/editGroupName
// Body: request.EditGroupNameRequest
func (h *ConversationHandler) EditGroupName(c *gin.Context) {
	var req request.EditGroupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.EditGroupName(callerExternalId(c), req.ConversationId, req.Name); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkAsRead advances the caller's read pointer.
// POST /conversation/markAsRead
// Body: request.MarkAsReadRequest
func (h *ConversationHandler) MarkAsRead(c *gin.Context) {
	var req request.MarkAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.MarkAsRead(callerExternalId(c), req.ConversationId, req.MessageId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Typing relays a typing indicator to the other members.
// POST /conversation/typing
// Body: request.TypingRequest
func (h *ConversationHandler) Typing(c *gin.Context) {
	var req request.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.conversationSvc.Typing(callerExternalId(c), req.ConversationId, req.IsTyping); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
