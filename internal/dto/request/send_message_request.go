package request

// SendMessageRequest appends a message to a conversation. Media types
// carry a single storage URL in content; text carries the text chunks.
// Used by:
//   - handler/message_handler.go: Create
type SendMessageRequest struct {
	ConversationId string   `json:"conversation_id" binding:"required"`
	Type           string   `json:"type" binding:"required,oneof=text image pdf audio"`
	Content        []string `json:"content" binding:"required,min=1,dive,required"`
}
