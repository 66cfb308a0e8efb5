package respond

// UserRespond is a user profile as returned to clients.
// Used by:
//   - internal/service/user: Resolve
//   - internal/service/contact: ListContacts
type UserRespond struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Status   string `json:"status"`
}
