package request

// CreateGroupRequest creates a group conversation. The creator is always
// added as a member regardless of the member list.
// Used by:
//   - handler/conversation_handler.go: CreateGroup
type CreateGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIds []string `json:"member_ids" binding:"required,min=1"`
}
