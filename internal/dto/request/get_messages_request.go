package request

// GetMessagesRequest lists a conversation's messages.
// Used by:
//   - handler/message_handler.go: List
type GetMessagesRequest struct {
	ConversationId string `form:"conversation_id" binding:"required"`
}
