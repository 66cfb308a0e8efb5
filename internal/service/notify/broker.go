package notify

import "context"

// Sender delivers an encoded event to every live connection of one user.
// The websocket gateway implements this; the indirection keeps the broker
// free of a gateway import.
type Sender interface {
	SendToUser(userUuid string, payload []byte)
}

// Broker fans mutation events out to recipients. Two implementations:
// ChannelBroker (single node, in-process) and KafkaBroker (multi-node).
type Broker interface {
	// Publish enqueues an event. Fire-and-forget from the caller's view;
	// a publish failure never fails the mutation that produced it.
	Publish(ctx context.Context, event Event) error
	// Start runs the consume/fanout loop until Close. Blocking; run it
	// on its own goroutine.
	Start()
	// Close releases broker resources.
	Close()
}
