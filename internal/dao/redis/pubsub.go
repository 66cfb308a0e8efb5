package redis

import (
	"context"

	"unitcom_server/pkg/errorx"

	"go.uber.org/zap"
)

// Publish sends a payload to a pub/sub channel. Typing indicators go
// through here so every node fans the event out to its own websocket
// clients; delivery is fire-and-forget with no ordering guarantee.
func Publish(ctx context.Context, channel string, payload []byte) error {
	if redisClient == nil {
		return errNotReady
	}
	if err := redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis publish channel %s", channel)
	}
	return nil
}

// Subscribe consumes a pub/sub channel until ctx is cancelled, invoking
// handle for each payload. Run it on its own goroutine.
func Subscribe(ctx context.Context, channel string, handle func(payload []byte)) {
	if redisClient == nil {
		zap.L().Warn("redis not initialised, subscription skipped",
			zap.String("channel", channel))
		return
	}
	sub := redisClient.Subscribe(ctx, channel)
	defer func() {
		if err := sub.Close(); err != nil {
			zap.L().Error("redis subscription close failed", zap.Error(err))
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			handle([]byte(msg.Payload))
		}
	}
}
