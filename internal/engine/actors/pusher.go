package actors

import (
	"github.com/google/uuid"
)

// Pusher is the realtime delivery surface actors talk to. *websocket.Hub
// satisfies it; tests substitute a recording fake.
type Pusher interface {
	PushToUser(userID uuid.UUID, payload []byte)
	PushToTopic(threadID uuid.UUID, payload []byte)
	Broadcast(payload []byte)
}
