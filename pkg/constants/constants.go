package constants

const (
	CHANNEL_SIZE  = 100      // buffered channel size for ws/broker pipelines
	FILE_MAX_SIZE = 50 << 20 // upload cap in bytes (50MB)
	REDIS_TIMEOUT = 30       // cache TTL (minutes)

	// TypingChannel is the Redis pub/sub channel relaying typing events
	// between nodes before websocket fanout.
	TypingChannel = "unitcom:typing"
)
