// Package service defines the business-layer interfaces consumed by the
// handler layer. All operations take the caller's external auth id; the
// services resolve it to a local user (Unauthenticated when empty,
// UserNotFound when unprovisioned).
package service

import (
	"mime/multipart"

	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/dto/respond"
)

// UserService is the identity resolver plus webhook provisioning.
type UserService interface {
	// Resolve maps an external auth id to the local profile.
	Resolve(externalId string) (*respond.UserRespond, error)
	// HandleAuthEvent upserts a user from a provider webhook event.
	HandleAuthEvent(event request.AuthWebhookEvent) error
}

// ContactService manages the accepted contact graph.
type ContactService interface {
	// ListContacts resolves the caller's contacts to profiles.
	ListContacts(externalId string) ([]respond.UserRespond, error)
	// RemoveContact unfriends via the direct conversation id, cascading
	// conversation, contact edge, memberships and messages atomically.
	RemoveContact(externalId, conversationId string) error
}

// FriendRequestService runs the request state machine.
type FriendRequestService interface {
	// Create sends a request to the user owning email.
	Create(externalId, email string) (requestId string, err error)
	// Accept converts a pending request into a contact plus a direct
	// conversation. Caller must be the receiver.
	Accept(externalId, requestId string) error
	// Decline deletes a pending request. Caller must be the receiver.
	Decline(externalId, requestId string) error
	// List returns pending requests addressed to the caller.
	List(externalId string) ([]respond.FriendRequestRespond, error)
}

// ConversationService covers aggregation, group lifecycle and read
// tracking.
type ConversationService interface {
	// List is the conversation-list read path: previews + unseen counts.
	List(externalId string) ([]respond.ConversationListItemRespond, error)
	// Get is the chat-view read path with resolved other member(s).
	Get(externalId, conversationId string) (*respond.ConversationDetailRespond, error)
	// CreateGroup creates a group; the caller is always a member.
	CreateGroup(externalId string, req request.CreateGroupRequest) error
	// LeaveGroup removes the caller's membership.
	LeaveGroup(externalId, conversationId string) error
	// DeleteGroup cascades; requires more than one membership.
	DeleteGroup(externalId, conversationId string) error
	// EditGroupName renames; any member may rename.
	EditGroupName(externalId, conversationId, name string) error
	// MarkAsRead advances the caller's read pointer, monotonically.
	MarkAsRead(externalId, conversationId string, messageId int64) error
	// Typing relays a typing indicator to the other members.
	Typing(externalId, conversationId string, isTyping bool) error
}

// MessageService manages messages and attachments.
type MessageService interface {
	Create(externalId string, req request.SendMessageRequest) (*respond.MessageRespond, error)
	// List returns the conversation's messages in chronological order.
	List(externalId, conversationId string) ([]respond.MessageRespond, error)
	// Edit replaces content; text messages only, sender only.
	Edit(externalId string, messageId int64, content []string) error
	// Delete removes a message; sender only. Media blobs are removed
	// best-effort afterwards.
	Delete(externalId string, messageId int64) error
	// Upload stores an attachment and returns its public URL.
	Upload(kind string, fileHeader *multipart.FileHeader) (*respond.UploadRespond, error)
}

// RtcService issues video-call tokens.
type RtcService interface {
	// IssueToken mints a room-scoped call token for username.
	IssueToken(externalId, room, username string) (*respond.LivekitTokenRespond, error)
}
