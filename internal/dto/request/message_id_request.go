package request

// MessageIdRequest targets a single message.
// Used by:
//   - handler/message_handler.go: Delete
type MessageIdRequest struct {
	MessageId int64 `json:"message_id,string" binding:"required"`
}
