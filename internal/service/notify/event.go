// Package notify is the change-notification layer. Every mutation
// publishes an event keyed by recipient user ids; subscribed clients
// receive it over the websocket gateway and re-query what changed.
package notify

import "encoding/json"

// Event types pushed to clients.
const (
	EventMessageNew            = "message.new"
	EventMessageEdited         = "message.edited"
	EventMessageDeleted        = "message.deleted"
	EventConversationUpdated   = "conversation.updated"
	EventFriendRequestNew      = "friend_request.new"
	EventFriendRequestAccepted = "friend_request.accepted"
	EventFriendRequestDeclined = "friend_request.declined"
	EventTyping                = "typing"
)

// Event is one change notification. Recipients is resolved by the
// publishing service at mutation time; the payload is opaque to the
// broker.
type Event struct {
	Type           string          `json:"type"`
	ConversationId string          `json:"conversation_id,omitempty"`
	Recipients     []string        `json:"recipients"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event, marshalling payload. A payload that fails to
// marshal ships as null rather than failing the mutation.
func NewEvent(eventType, conversationId string, recipients []string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	return Event{
		Type:           eventType,
		ConversationId: conversationId,
		Recipients:     recipients,
		Payload:        raw,
	}
}

// clientView is the wire form pushed to a single client; the recipient
// list stays server-side.
type clientView struct {
	Type           string          `json:"type"`
	ConversationId string          `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Encode renders the event for delivery to one client.
func (e *Event) Encode() []byte {
	data, err := json.Marshal(clientView{
		Type:           e.Type,
		ConversationId: e.ConversationId,
		Payload:        e.Payload,
	})
	if err != nil {
		return nil
	}
	return data
}
