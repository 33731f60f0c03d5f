package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// Event types pushed to connected clients.
const (
	EventNewNotification    = "new_notification"
	EventUnreadCount        = "unread_count"
	EventThreadUpdate       = "thread_update"
	EventNewReply           = "new_reply"
	EventNewLike            = "new_like"
	EventSystemNotification = "system_notification"
)

// Event is the envelope for every outbound frame.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent wraps a payload in the standard envelope and serializes it.
// A payload that fails to marshal is dropped with a log line rather than
// terminating the connection.
func NewEvent(eventType string, data interface{}) []byte {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return nil
	}
	return payload
}

// UnreadCountPayload carries the recipient's current unread total.
type UnreadCountPayload struct {
	Count int `json:"count"`
}

// ThreadUpdatePayload carries refreshed counters for a thread topic.
type ThreadUpdatePayload struct {
	ThreadID     string `json:"threadId"`
	LikesCount   int    `json:"likesCount"`
	RepliesCount int    `json:"repliesCount"`
	RepostsCount int    `json:"repostsCount"`
}

// clientCommand is the inbound frame format. Clients only send topic
// subscription changes.
type clientCommand struct {
	Action   string `json:"action"`
	ThreadID string `json:"threadId"`
}
