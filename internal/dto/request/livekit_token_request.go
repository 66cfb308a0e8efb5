package request

// LivekitTokenRequest requests a call token; room is the conversation id.
// Used by:
//   - handler/rtc_handler.go: Token
type LivekitTokenRequest struct {
	Room     string `form:"room" binding:"required"`
	Username string `form:"username" binding:"required"`
}
