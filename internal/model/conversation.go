package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Conversation is a chat between users. Direct conversations (IsGroup
// false) have no name and always exactly two memberships; group
// conversations carry a name.
type Conversation struct {
	gorm.Model

	// Uuid format: C + date-prefixed random string.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:conversation uuid"`

	// IsGroup distinguishes group chats from direct ones.
	IsGroup bool `gorm:"column:is_group;not null;comment:group flag"`

	// Name is required for groups, empty for direct conversations
	// (clients derive the title from the other member).
	Name string `gorm:"column:name;type:varchar(50);comment:group name"`

	// LastMessageId is the denormalized pointer to the newest message
	// (snowflake id, 0 = no messages). Maintained transactionally by the
	// message store so the conversation list never scans for previews.
	LastMessageId int64 `gorm:"column:last_message_id;type:bigint;default:0;comment:newest message id"`

	// LastMessageAt orders the conversation list; matches the SentAt of
	// the message LastMessageId points to.
	LastMessageAt sql.NullTime `gorm:"column:last_message_at;type:datetime;comment:newest message time"`
}

func (Conversation) TableName() string {
	return "conversation"
}
