package request

// EditGroupNameRequest renames a group conversation.
// Used by:
//   - handler/conversation_handler.go: EditGroupName
type EditGroupNameRequest struct {
	ConversationId string `json:"conversation_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
}
