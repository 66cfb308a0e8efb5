package request

// MarkAsReadRequest advances the caller's read pointer.
// Used by:
//   - handler/conversation_handler.go: MarkAsRead
type MarkAsReadRequest struct {
	ConversationId string `json:"conversation_id" binding:"required"`
	MessageId      int64  `json:"message_id,string" binding:"required"`
}
