package notify

import (
	"context"

	"unitcom_server/pkg/constants"

	"go.uber.org/zap"
)

// ChannelBroker is the single-node broker: events flow through a buffered
// channel straight to the local websocket gateway.
type ChannelBroker struct {
	events chan Event
	sender Sender
	done   chan struct{}
}

// NewChannelBroker creates a channel broker delivering through sender.
func NewChannelBroker(sender Sender) *ChannelBroker {
	return &ChannelBroker{
		events: make(chan Event, constants.CHANNEL_SIZE),
		sender: sender,
		done:   make(chan struct{}),
	}
}

// Publish enqueues without blocking mutations; when the buffer is full
// the event is dropped and logged. Clients resynchronise on their next
// query, so a lost notification degrades latency, not correctness.
func (b *ChannelBroker) Publish(ctx context.Context, event Event) error {
	select {
	case b.events <- event:
		return nil
	default:
		zap.L().Warn("notify channel full, dropping event",
			zap.String("type", event.Type),
			zap.String("conversation", event.ConversationId))
		return nil
	}
}

// Start consumes the event channel and fans out per recipient.
func (b *ChannelBroker) Start() {
	for {
		select {
		case <-b.done:
			return
		case event := <-b.events:
			b.fanout(event)
		}
	}
}

func (b *ChannelBroker) fanout(event Event) {
	payload := event.Encode()
	if payload == nil {
		return
	}
	for _, recipient := range event.Recipients {
		b.sender.SendToUser(recipient, payload)
	}
}

// Close stops the consume loop.
func (b *ChannelBroker) Close() {
	close(b.done)
}
