package respond

// MessageRespond is one message in the chat view. Ids travel as strings
// to survive JavaScript number precision.
// Used by:
//   - internal/service/message: Create, List
type MessageRespond struct {
	MessageId    string   `json:"message_id"`
	SenderId     string   `json:"sender_id"`
	SenderName   string   `json:"sender_name"`
	SenderAvatar string   `json:"sender_avatar,omitempty"`
	Type         string   `json:"type"`
	Content      []string `json:"content"`
	SentAt       int64    `json:"sent_at"` // unix millis
}
