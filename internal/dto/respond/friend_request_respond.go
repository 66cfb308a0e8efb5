package respond

// FriendRequestRespond is one pending request with the sender resolved.
// Used by:
//   - internal/service/friendrequest: List
type FriendRequestRespond struct {
	RequestId string      `json:"request_id"`
	Sender    UserRespond `json:"sender"`
	CreatedAt int64       `json:"created_at"` // unix millis
}
