package model

import "gorm.io/gorm"

// FriendRequest is a directed pending request. Terminal states delete the
// row: accepting converts it into a Contact plus a direct Conversation,
// declining just removes it. The unique index on (receiver, sender)
// enforces at-most-one pending row per ordered pair under concurrency.
type FriendRequest struct {
	gorm.Model

	// Uuid format: F + date-prefixed random string.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:request uuid"`

	SenderUuid   string `gorm:"column:sender_uuid;type:char(20);not null;uniqueIndex:uniq_recv_sender,priority:2;comment:sender uuid"`
	ReceiverUuid string `gorm:"column:receiver_uuid;type:char(20);not null;uniqueIndex:uniq_recv_sender,priority:1;index;comment:receiver uuid"`
}

func (FriendRequest) TableName() string {
	return "friend_request"
}
