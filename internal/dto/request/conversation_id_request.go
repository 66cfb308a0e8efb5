package request

// ConversationIdRequest targets a single conversation.
// Used by:
//   - handler/conversation_handler.go: LeaveGroup, DeleteGroup
//   - handler/contact_handler.go: RemoveContact
type ConversationIdRequest struct {
	ConversationId string `json:"conversation_id" binding:"required"`
}
