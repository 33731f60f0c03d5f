package settings

import (
	"sync"

	"ripple-social/internal/models"

	"github.com/google/uuid"
)

// Channel names a notification delivery surface.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// Service answers whether a recipient accepts a notification type on a
// given channel, and whether a sender is allowed to mention them.
type Service interface {
	Allows(recipientID uuid.UUID, notificationType models.NotificationType, channel Channel) bool
	AllowsMention(recipientID, senderID uuid.UUID) bool
}

type preferenceKey struct {
	recipient uuid.UUID
	ntype     models.NotificationType
	channel   Channel
}

type mentionKey struct {
	recipient uuid.UUID
	sender    uuid.UUID
}

// Static is the default preference store: everything allowed unless an
// override says otherwise. Per-user persisted preferences can replace it
// behind the same interface later.
type Static struct {
	mu       sync.RWMutex
	disabled map[preferenceKey]bool
	blocked  map[mentionKey]bool
}

func NewStatic() *Static {
	return &Static{
		disabled: make(map[preferenceKey]bool),
		blocked:  make(map[mentionKey]bool),
	}
}

func (s *Static) Allows(recipientID uuid.UUID, notificationType models.NotificationType, channel Channel) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.disabled[preferenceKey{recipient: recipientID, ntype: notificationType, channel: channel}]
}

func (s *Static) AllowsMention(recipientID, senderID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.blocked[mentionKey{recipient: recipientID, sender: senderID}]
}

// Disable turns off one notification type on one channel for a recipient.
func (s *Static) Disable(recipientID uuid.UUID, notificationType models.NotificationType, channel Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled[preferenceKey{recipient: recipientID, ntype: notificationType, channel: channel}] = true
}

// BlockMention stops a specific sender from mentioning the recipient.
func (s *Static) BlockMention(recipientID, senderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[mentionKey{recipient: recipientID, sender: senderID}] = true
}
