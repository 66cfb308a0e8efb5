package request

// EditMessageRequest replaces the content of a text message. Snowflake
// ids travel as strings to survive JavaScript number precision.
// Used by:
//   - handler/message_handler.go: Edit
type EditMessageRequest struct {
	MessageId int64    `json:"message_id,string" binding:"required"`
	Content   []string `json:"content" binding:"required,min=1,dive,required"`
}
