// This file handles the message API, attachment upload included.
package handler

import (
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/service"
	"unitcom_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles message requests.
type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// Create appends a message to a conversation.
// POST /message/send
// Body: request.SendMessageRequest
// Response: respond.MessageRespond
func (h *MessageHandler) Create(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.Create(callerExternalId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// List returns a conversation's messages in chronological order.
// GET /message/list?conversation_id=xxx
// Query: request.GetMessagesRequest
// Response: []respond.MessageRespond
func (h *MessageHandler) List(c *gin.Context) {
	var req request.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.List(callerExternalId(c), req.ConversationId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Edit replaces the content of a text message.
// POST /message/edit
// Body: request.EditMessageRequest
func (h *MessageHandler) Edit(c *gin.Context) {
	var req request.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.messageSvc.Edit(callerExternalId(c), req.MessageId, req.Content); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Delete removes a message.
// POST /message/delete
// Body: request.MessageIdRequest
func (h *MessageHandler) Delete(c *gin.Context) {
	var req request.MessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.messageSvc.Delete(callerExternalId(c), req.MessageId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Upload stores an attachment blob. Multipart form: "kind" is the
// message type (image|pdf|audio), "file" is the blob.
// POST /message/upload
// Response: respond.UploadRespond
func (h *MessageHandler) Upload(c *gin.Context) {
	kind := c.PostForm("kind")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "missing file field"))
		return
	}
	data, err := h.messageSvc.Upload(kind, fileHeader)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
