package respond

// ConversationMemberRespond is another participant of a conversation,
// read pointer included so clients can render seen markers.
type ConversationMemberRespond struct {
	UserId            string `json:"user_id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	Avatar            string `json:"avatar,omitempty"`
	Status            string `json:"status,omitempty"`
	LastSeenMessageId string `json:"last_seen_message_id,omitempty"`
}

// ConversationDetailRespond is the chat-view shape. Direct conversations
// set OtherMember; groups set OtherMembers.
// Used by:
//   - internal/service/conversation: Get
type ConversationDetailRespond struct {
	ConversationId string                      `json:"conversation_id"`
	IsGroup        bool                        `json:"is_group"`
	Name           string                      `json:"name,omitempty"`
	OtherMember    *ConversationMemberRespond  `json:"other_member,omitempty"`
	OtherMembers   []ConversationMemberRespond `json:"other_members,omitempty"`
}
