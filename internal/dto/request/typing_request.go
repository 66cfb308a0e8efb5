package request

// TypingRequest relays a typing indicator to the other members.
// Used by:
//   - handler/conversation_handler.go: Typing
type TypingRequest struct {
	ConversationId string `json:"conversation_id" binding:"required"`
	IsTyping       bool   `json:"is_typing"`
}
