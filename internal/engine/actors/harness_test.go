package actors

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ripple-social/internal/email"
	"ripple-social/internal/utils"
	"ripple-social/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakePusher records the frames actors push, keyed by user and topic.
type fakePusher struct {
	mu     sync.Mutex
	user   map[uuid.UUID][][]byte
	topic  map[uuid.UUID][][]byte
	global [][]byte
}

func newFakePusher() *fakePusher {
	return &fakePusher{
		user:  make(map[uuid.UUID][][]byte),
		topic: make(map[uuid.UUID][][]byte),
	}
}

func (p *fakePusher) PushToUser(userID uuid.UUID, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user[userID] = append(p.user[userID], payload)
}

func (p *fakePusher) PushToTopic(threadID uuid.UUID, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic[threadID] = append(p.topic[threadID], payload)
}

func (p *fakePusher) Broadcast(payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.global = append(p.global, payload)
}

// userEventTypes decodes the envelope of every frame pushed to a user.
func (p *fakePusher) userEventTypes(userID uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := []string{}
	for _, frame := range p.user[userID] {
		var event websocket.Event
		if err := json.Unmarshal(frame, &event); err == nil {
			types = append(types, event.Type)
		}
	}
	return types
}

func (p *fakePusher) topicEventTypes(threadID uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := []string{}
	for _, frame := range p.topic[threadID] {
		var event websocket.Event
		if err := json.Unmarshal(frame, &event); err == nil {
			types = append(types, event.Type)
		}
	}
	return types
}

// fakeEmailSink records queued messages.
type fakeEmailSink struct {
	mu       sync.Mutex
	messages []email.Message
}

func (s *fakeEmailSink) Enqueue(msg email.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *fakeEmailSink) sent() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message{}, s.messages...)
}

// ask sends a request to an actor and fails the test on transport errors.
// Application errors come back as the result payload.
func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	result, err := system.Root.RequestFuture(pid, msg, 3*time.Second).Result()
	require.NoError(t, err)
	return result
}

// askErr is ask for calls expected to fail, returning the AppError.
func askErr(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) *utils.AppError {
	t.Helper()
	result := ask(t, system, pid, msg)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", result)
	return appErr
}
