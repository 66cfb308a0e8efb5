package request

// CreateFriendRequestRequest requests a friend request by receiver email.
// Used by:
//   - handler/friend_request_handler.go: Create
type CreateFriendRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}
