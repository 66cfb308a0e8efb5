package respond

// LastMessageRespond is the preview of a conversation's newest message.
// Text keeps the raw content list; media types collapse to a sentinel.
type LastMessageRespond struct {
	Sender    string   `json:"sender"`
	Content   []string `json:"content"`
	Timestamp int64    `json:"timestamp"` // unix millis
}

// ConversationListItemRespond is one row of the conversation list.
// OtherMember is set for direct conversations only.
// Used by:
//   - internal/service/conversation: List
type ConversationListItemRespond struct {
	ConversationId string              `json:"conversation_id"`
	IsGroup        bool                `json:"is_group"`
	Name           string              `json:"name,omitempty"`
	OtherMember    *UserRespond        `json:"other_member,omitempty"`
	UnseenCount    int64               `json:"unseen_count"`
	LastMessage    *LastMessageRespond `json:"last_message,omitempty"`
}
