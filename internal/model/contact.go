package model

import "gorm.io/gorm"

// Contact is an accepted, undirected friendship edge linked to a direct
// conversation. Rows are stored canonically with User1 < User2 so the
// composite unique index enforces at-most-one contact per unordered pair
// regardless of call order or concurrency.
type Contact struct {
	gorm.Model

	User1 string `gorm:"column:user1;type:char(20);not null;uniqueIndex:uniq_pair;index;comment:lower user uuid"`
	User2 string `gorm:"column:user2;type:char(20);not null;uniqueIndex:uniq_pair;index;comment:higher user uuid"`

	ConversationUuid string `gorm:"column:conversation_uuid;index;type:char(20);not null;comment:direct conversation uuid"`
}

func (Contact) TableName() string {
	return "contact"
}

// CanonicalPair returns the two user uuids in storage order.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
