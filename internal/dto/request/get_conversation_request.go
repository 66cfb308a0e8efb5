package request

// GetConversationRequest loads one conversation's detail view.
// Used by:
//   - handler/conversation_handler.go: Get
type GetConversationRequest struct {
	ConversationId string `form:"conversation_id" binding:"required"`
}
