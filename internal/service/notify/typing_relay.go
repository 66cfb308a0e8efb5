package notify

import (
	"context"
	"encoding/json"

	myredis "unitcom_server/internal/dao/redis"
	"unitcom_server/pkg/constants"

	"go.uber.org/zap"
)

// TypingRelay carries typing indicators between nodes over Redis pub/sub.
// Typing is ephemeral (no persistence, no ordering, last-write-wins on
// the client), so it bypasses the mutation broker entirely.
type TypingRelay struct {
	sender Sender
	cancel context.CancelFunc
}

// NewTypingRelay creates a relay delivering through sender.
func NewTypingRelay(sender Sender) *TypingRelay {
	return &TypingRelay{sender: sender}
}

// Publish broadcasts a typing event to every node. Failures are logged
// and swallowed; a lost typing indicator is invisible to users.
func (t *TypingRelay) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("typing event marshal failed", zap.Error(err))
		return
	}
	if err := myredis.Publish(ctx, constants.TypingChannel, payload); err != nil {
		zap.L().Warn("typing relay publish failed", zap.Error(err))
	}
}

// Start subscribes to the typing channel and fans received events out to
// local connections. The consume loop runs on its own goroutine until
// Close.
func (t *TypingRelay) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go myredis.Subscribe(ctx, constants.TypingChannel, func(payload []byte) {
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			zap.L().Error("typing event decode failed", zap.Error(err))
			return
		}
		encoded := event.Encode()
		if encoded == nil {
			return
		}
		for _, recipient := range event.Recipients {
			t.sender.SendToUser(recipient, encoded)
		}
	})
}

// Close stops the subscription.
func (t *TypingRelay) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}
