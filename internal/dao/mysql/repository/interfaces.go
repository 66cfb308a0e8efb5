// Package repository is the data access layer. All repository interfaces
// are defined here; implementations live in the per-entity files.
package repository

import (
	"time"

	"unitcom_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository accesses local identity records.
type UserRepository interface {
	// FindByUuid looks a user up by internal uuid.
	FindByUuid(uuid string) (*model.User, error)
	// FindByExternalId looks a user up by auth-provider subject.
	FindByExternalId(externalId string) (*model.User, error)
	// FindByEmail looks a user up by email.
	FindByEmail(email string) (*model.User, error)
	// FindByUuids batch-loads users by internal uuid.
	FindByUuids(uuids []string) ([]model.User, error)
	// Create inserts a new user.
	Create(user *model.User) error
	// Update persists profile changes.
	Update(user *model.User) error
}

// ConversationRepository accesses conversations.
type ConversationRepository interface {
	FindByUuid(uuid string) (*model.Conversation, error)
	Create(conversation *model.Conversation) error
	// UpdateName renames a group conversation.
	UpdateName(uuid string, name string) error
	// SetLastMessage writes the denormalized newest-message pointer.
	SetLastMessage(uuid string, messageId int64, at time.Time) error
	// Delete hard-deletes the conversation row (cascades handle the rest).
	Delete(uuid string) error
}

// MemberRepository accesses conversation memberships.
type MemberRepository interface {
	// FindByMember lists all memberships of one user.
	FindByMember(memberUuid string) ([]model.ConversationMember, error)
	// FindByConversation lists all memberships of one conversation.
	FindByConversation(conversationUuid string) ([]model.ConversationMember, error)
	// FindByConversationAndMember resolves a single membership row.
	FindByConversationAndMember(conversationUuid, memberUuid string) (*model.ConversationMember, error)
	// CountByConversation counts memberships of one conversation.
	CountByConversation(conversationUuid string) (int64, error)
	Create(member *model.ConversationMember) error
	// UpdateLastSeen moves the read pointer of one membership forward.
	// A messageId at or below the stored pointer is a no-op.
	UpdateLastSeen(conversationUuid, memberUuid string, messageId int64) error
	// DeleteByConversationAndMember hard-deletes one membership.
	DeleteByConversationAndMember(conversationUuid, memberUuid string) error
	// DeleteByConversation hard-deletes all memberships of a conversation.
	DeleteByConversation(conversationUuid string) error
}

// MessageRepository accesses messages.
type MessageRepository interface {
	FindByUuid(uuid int64) (*model.Message, error)
	// FindByConversation lists a conversation's messages in chronological
	// order (snowflake id ascending).
	FindByConversation(conversationUuid string) ([]model.Message, error)
	// FindLastByConversation returns the newest message, or NotFound.
	FindLastByConversation(conversationUuid string) (*model.Message, error)
	// CountUnseen counts messages newer than afterId not sent by
	// excludeSender. afterId 0 counts every foreign message.
	CountUnseen(conversationUuid string, excludeSender string, afterId int64) (int64, error)
	Create(message *model.Message) error
	// UpdateContent replaces the payload of one message.
	UpdateContent(uuid int64, content string) error
	// DeleteByUuid hard-deletes one message.
	DeleteByUuid(uuid int64) error
	// DeleteByConversation hard-deletes all messages of a conversation.
	DeleteByConversation(conversationUuid string) error
}

// ContactRepository accesses the contact graph.
type ContactRepository interface {
	// FindByUsers resolves the edge for an unordered pair.
	FindByUsers(userA, userB string) (*model.Contact, error)
	// FindByUser lists edges where the user occupies either slot.
	FindByUser(userUuid string) ([]model.Contact, error)
	// FindByConversation resolves the edge backing a direct conversation.
	FindByConversation(conversationUuid string) (*model.Contact, error)
	Create(contact *model.Contact) error
	// DeleteByConversation hard-deletes the edge of a direct conversation.
	DeleteByConversation(conversationUuid string) error
}

// FriendRequestRepository accesses pending friend requests.
type FriendRequestRepository interface {
	FindByUuid(uuid string) (*model.FriendRequest, error)
	// FindBySenderAndReceiver resolves the pending row of an ordered pair.
	FindBySenderAndReceiver(senderUuid, receiverUuid string) (*model.FriendRequest, error)
	// FindByReceiver lists pending requests addressed to a user.
	FindByReceiver(receiverUuid string) ([]model.FriendRequest, error)
	Create(request *model.FriendRequest) error
	// DeleteByUuid hard-deletes a request (both terminal states).
	DeleteByUuid(uuid string) error
}

// Repositories aggregates all repository instances. The service layer
// receives this as its single data-access dependency.
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	Conversation  ConversationRepository
	Member        MemberRepository
	Message       MessageRepository
	Contact       ContactRepository
	FriendRequest FriendRequestRepository
}

// NewRepositories builds every repository on top of one gorm instance.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		Conversation:  NewConversationRepository(db),
		Member:        NewMemberRepository(db),
		Message:       NewMessageRepository(db),
		Contact:       NewContactRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
	}
}

// Transaction runs fn inside one database transaction. Multi-row cascades
// (group deletion, contact removal, accept) must go through here so
// partial application cannot happen.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
