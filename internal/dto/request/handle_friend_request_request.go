package request

// HandleFriendRequestRequest accepts or declines a pending request.
// Used by:
//   - handler/friend_request_handler.go: Accept, Decline
type HandleFriendRequestRequest struct {
	RequestId string `json:"request_id" binding:"required"`
}
