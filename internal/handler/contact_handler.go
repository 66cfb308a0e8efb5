// This file handles the contact API.
package handler

import (
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact graph requests.
type ContactHandler struct {
	contactSvc service.ContactService
}

func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// List returns the caller's contacts.
// GET /contact/list
// Response: []respond.UserRespond
func (h *ContactHandler) List(c *gin.Context) {
	data, err := h.contactSvc.ListContacts(callerExternalId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Remove unfriends a contact via the direct conversation id.
// POST /contact/remove
// Body: request.ConversationIdRequest
func (h *ContactHandler) Remove(c *gin.Context) {
	var req request.ConversationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.RemoveContact(callerExternalId(c), req.ConversationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
