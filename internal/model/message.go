package model

import (
	"time"

	"gorm.io/gorm"
)

// Message types. Media types store a single blob URL in the content list;
// text stores the text chunks directly.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypePdf   = "pdf"
	MessageTypeAudio = "audio"
)

// Message is one message in a conversation. The snowflake Uuid is the
// sole ordering key: insertion order equals chronological order, with the
// id breaking SentAt ties deterministically.
type Message struct {
	gorm.Model

	// Uuid is a snowflake id (int64), strictly increasing per node.
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:message snowflake id"`

	ConversationUuid string `gorm:"column:conversation_uuid;index;type:char(20);not null;comment:conversation uuid"`
	SenderUuid       string `gorm:"column:sender_uuid;index;type:char(20);not null;comment:sender uuid"`

	// Type is one of text|image|pdf|audio.
	Type string `gorm:"column:type;type:varchar(10);not null;comment:message type"`

	// Content is the JSON-encoded payload string list: text chunks for
	// text messages, a single storage URL for media.
	Content string `gorm:"column:content;type:TEXT;not null;comment:payload list (json)"`

	// SentAt is assigned by the store at insertion.
	SentAt time.Time `gorm:"column:sent_at;type:datetime;not null;index;comment:send time"`
}

func (Message) TableName() string {
	return "message"
}
