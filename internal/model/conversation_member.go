package model

import "gorm.io/gorm"

// ConversationMember is a user's participation record in a conversation,
// carrying their read position. The composite unique index enforces one
// row per (conversation, member) pair.
type ConversationMember struct {
	gorm.Model

	ConversationUuid string `gorm:"column:conversation_uuid;type:char(20);not null;uniqueIndex:uniq_conv_member;index;comment:conversation uuid"`
	MemberUuid       string `gorm:"column:member_uuid;type:char(20);not null;uniqueIndex:uniq_conv_member;index;comment:member uuid"`

	// LastSeenMessageId is the newest message the member has seen
	// (snowflake id, 0 = nothing seen). Advanced monotonically forward
	// by the read-tracking service, never rewound.
	LastSeenMessageId int64 `gorm:"column:last_seen_message_id;type:bigint;default:0;comment:read pointer"`
}

func (ConversationMember) TableName() string {
	return "conversation_member"
}
